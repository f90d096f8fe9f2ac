package session

import "errors"

// Sentinel errors returned by the session service.
var (
	// ErrSessionNotFound indicates the session id does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionEnded indicates an operation that needs an open session
	// was attempted on a closed one.
	ErrSessionEnded = errors.New("session already ended")
)
