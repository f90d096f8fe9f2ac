// Package srs implements the spaced-repetition scheduling engine.
//
// The engine is a pure function of (card, rating, now) built on the FSRS
// v6 memory model: a card's stability estimates how many days pass before
// recall probability decays to the configured target retention, and its
// difficulty scales how fast stability grows. Grading never touches
// storage; callers persist the returned card and review log themselves.
package srs

import (
	"fmt"
	"time"
)

// DefaultWeights are the FSRS v6 default model weights.
var DefaultWeights = [21]float64{
	0.212, 1.2931, 2.3065, 8.2956, // w[0..3]  initial stability per first rating
	6.4133, 0.8334, 3.0194, 0.001, // w[4..7]  difficulty
	1.8722, 0.1666, 0.796, 1.4835, // w[8..11] recall stability
	0.0614, 0.2629, 1.6483, 0.6014, // w[12..15] forget stability
	1.8729, 0.5425, 0.0912, 0.0658, // w[16..19] easy bonus / short-term
	0.1542, // w[20] decay exponent
}

// weightLowerBounds and weightUpperBounds delimit the valid range for each
// model weight.
var (
	weightLowerBounds = [21]float64{
		0.001, 0.001, 0.001, 0.001,
		1.0, 0.001, 0.001, 0.001,
		0.0, 0.0, 0.001, 0.001,
		0.001, 0.001, 0.0, 0.0,
		1.0, 0.0, 0.0, 0.0,
		0.1,
	}
	weightUpperBounds = [21]float64{
		100.0, 100.0, 100.0, 100.0,
		10.0, 4.0, 4.0, 0.75,
		4.5, 0.8, 3.5, 5.0,
		0.25, 0.9, 4.0, 1.0,
		6.0, 2.0, 2.0, 0.8,
		0.8,
	}
)

// ValidateWeights checks that all 21 weights are within their bounds.
func ValidateWeights(w [21]float64) error {
	for i := 0; i < len(w); i++ {
		if w[i] < weightLowerBounds[i] || w[i] > weightUpperBounds[i] {
			return fmt.Errorf(
				"%w: w[%d] = %f, bounds [%f, %f]",
				ErrInvalidWeights, i, w[i], weightLowerBounds[i], weightUpperBounds[i],
			)
		}
	}
	return nil
}

// Params defines all configurable knobs of the scheduling engine.
// Zero values produce sensible defaults; see field comments.
type Params struct {
	// Weights are the 21 FSRS model weights. Zero array → DefaultWeights.
	Weights [21]float64

	// DesiredRetention is the target recall probability at the scheduled
	// review time. Zero → 0.92; characters are visual and benefit from
	// more frequent early review than the textbook 0.9.
	DesiredRetention float64

	// MaximumInterval caps scheduled intervals, in days. Zero → 365.
	MaximumInterval int

	// LearningSteps are the sub-day steps a card works through on first
	// exposure. Nil → [1m, 10m].
	LearningSteps []time.Duration

	// RelearningSteps are the sub-day steps after a lapse. Nil → [10m].
	RelearningSteps []time.Duration

	// DisableShortTerm turns off sub-day learning steps entirely; cards
	// then graduate straight to Review on their first grading.
	DisableShortTerm bool
}

// DefaultParams returns the engine configuration used in production.
func DefaultParams() Params {
	return Params{
		Weights:          DefaultWeights,
		DesiredRetention: 0.92,
		MaximumInterval:  365,
		LearningSteps:    []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:  []time.Duration{10 * time.Minute},
	}
}

// withDefaults fills zero-value fields and validates the result.
func (p Params) withDefaults() (Params, error) {
	if p.Weights == ([21]float64{}) {
		p.Weights = DefaultWeights
	}
	if err := ValidateWeights(p.Weights); err != nil {
		return Params{}, err
	}

	if p.DesiredRetention == 0 {
		p.DesiredRetention = 0.92
	}
	if p.DesiredRetention < 0 || p.DesiredRetention > 1 {
		return Params{}, fmt.Errorf(
			"%w: desired retention %f out of range (0, 1]",
			ErrInvalidParams, p.DesiredRetention,
		)
	}

	if p.MaximumInterval == 0 {
		p.MaximumInterval = 365
	}
	if p.MaximumInterval < 0 {
		return Params{}, fmt.Errorf(
			"%w: maximum interval %d must be positive",
			ErrInvalidParams, p.MaximumInterval,
		)
	}

	if p.LearningSteps == nil {
		p.LearningSteps = []time.Duration{time.Minute, 10 * time.Minute}
	}
	if p.RelearningSteps == nil {
		p.RelearningSteps = []time.Duration{10 * time.Minute}
	}
	if p.DisableShortTerm {
		p.LearningSteps = nil
		p.RelearningSteps = nil
	}

	return p, nil
}
