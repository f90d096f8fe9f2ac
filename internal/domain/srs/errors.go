package srs

import "errors"

// Sentinel errors for the srs package.
// Use errors.Is to check: errors.Is(err, srs.ErrInvalidWeights)
var (
	ErrInvalidWeights = errors.New("srs: model weights out of bounds")
	ErrInvalidParams  = errors.New("srs: invalid scheduler parameters")
)
