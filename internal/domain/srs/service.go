package srs

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

const hoursPerDay = 24.0

// Service grades cards. It is stateless beyond its immutable configuration
// and safe for concurrent use without locking.
type Service struct {
	model            model
	desiredRetention float64
	maximumInterval  int
	learningSteps    []time.Duration
	relearningSteps  []time.Duration
}

// NewService creates a scheduling engine from the given parameters.
// Zero-value fields are filled with defaults; invalid values return an error.
func NewService(p Params) (*Service, error) {
	p, err := p.withDefaults()
	if err != nil {
		return nil, err
	}

	return &Service{
		model:            newModel(p.Weights),
		desiredRetention: p.DesiredRetention,
		maximumInterval:  p.MaximumInterval,
		learningSteps:    p.LearningSteps,
		relearningSteps:  p.RelearningSteps,
	}, nil
}

// Grade processes one grading of the card at the given time. It returns
// the updated card and the matching review log entry; the input card is
// never mutated. The caller is responsible for persisting both.
//
// Deterministic given now: no fuzzing, no hidden state. A rating outside
// the four-valued enum (possible only via decoding from external input)
// is rejected.
func (s *Service) Grade(card *domain.Card, rating domain.Rating, now time.Time) (*domain.Card, *domain.ReviewLog, error) {
	if !rating.IsValid() {
		return nil, nil, fmt.Errorf("%w: %d", domain.ErrInvalidRating, int(rating))
	}

	c := card.Clone()
	priorState := c.State

	// Clock skew guard: a now earlier than the last review clamps elapsed
	// time to zero instead of producing a negative interval.
	elapsed := 0.0
	if c.LastReview != nil {
		elapsed = now.Sub(*c.LastReview).Hours() / hoursPerDay
		if elapsed < 0 {
			elapsed = 0
		}
	}
	c.ElapsedDays = elapsed

	s.updateMemory(c, rating, elapsed)

	interval := s.transition(c, rating)

	c.Due = now.Add(interval)
	c.Reps++
	c.LastReview = &now
	c.UpdatedAt = now.UTC()

	if interval >= hoursPerDay*time.Hour {
		c.ScheduledDays = interval.Hours() / hoursPerDay
	} else {
		c.ScheduledDays = 0
	}

	log := &domain.ReviewLog{
		ID:            uuid.New(),
		CardID:        c.ID,
		Rating:        rating,
		State:         priorState,
		Due:           c.Due,
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: c.ScheduledDays,
		Timestamp:     now,
	}

	return c, log, nil
}

// Preview returns the result of grading the card with each possible rating.
func (s *Service) Preview(card *domain.Card, now time.Time) (map[domain.Rating]*domain.Card, error) {
	out := make(map[domain.Rating]*domain.Card, 4)
	for _, r := range []domain.Rating{domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy} {
		c, _, err := s.Grade(card, r, now)
		if err != nil {
			return nil, err
		}
		out[r] = c
	}
	return out, nil
}

// Retrievability returns the card's estimated recall probability at the
// given time, or 0 for a card that has never been reviewed.
func (s *Service) Retrievability(card *domain.Card, now time.Time) float64 {
	if card.LastReview == nil || card.Stability <= 0 {
		return 0
	}
	elapsed := now.Sub(*card.LastReview).Hours() / hoursPerDay
	if elapsed < 0 {
		elapsed = 0
	}
	return s.model.retrievability(elapsed, card.Stability)
}

// updateMemory advances the card's stability and difficulty.
func (s *Service) updateMemory(c *domain.Card, rating domain.Rating, elapsedDays float64) {
	if c.State == domain.StateNew {
		// First grading: initialize from the rating.
		c.Stability = s.model.initStability(rating)
		c.Difficulty = s.model.initDifficulty(rating, true)
		return
	}

	if elapsedDays < 1 {
		c.Stability = s.model.shortTermStability(c.Stability, rating)
	} else {
		r := s.model.retrievability(elapsedDays, c.Stability)
		c.Stability = s.model.nextStability(c.Difficulty, c.Stability, r, rating)
	}
	c.Difficulty = s.model.nextDifficulty(c.Difficulty, rating)
}

// transition applies the state machine and returns the interval until the
// next review.
func (s *Service) transition(c *domain.Card, rating domain.Rating) time.Duration {
	switch c.State {
	case domain.StateNew:
		c.State = domain.StateLearning
		c.LearningSteps = 0
		return s.stepLearning(c, rating, s.learningSteps)
	case domain.StateLearning:
		return s.stepLearning(c, rating, s.learningSteps)
	case domain.StateRelearning:
		return s.stepLearning(c, rating, s.relearningSteps)
	default:
		return s.stepReview(c, rating)
	}
}

// stepLearning handles a grading while the card is in Learning or
// Relearning. LearningSteps counts the short steps completed so far in the
// current phase; when the count covers the configured steps the card
// graduates to Review.
func (s *Service) stepLearning(c *domain.Card, rating domain.Rating, steps []time.Duration) time.Duration {
	step := c.LearningSteps

	// No steps configured, or already past them: graduate unless the
	// card was just forgotten again.
	if len(steps) == 0 || (step >= len(steps) && rating != domain.RatingAgain) {
		return s.graduate(c)
	}

	switch rating {
	case domain.RatingAgain:
		// Stay in the learning phase and repeat the shortest step.
		c.LearningSteps++
		return steps[0]

	case domain.RatingHard:
		// Hold position: retry around the current step without advancing.
		if step == 0 && len(steps) == 1 {
			return time.Duration(float64(steps[0]) * 1.5)
		}
		if step == 0 && len(steps) >= 2 {
			return (steps[0] + steps[1]) / 2
		}
		return steps[min(step, len(steps)-1)]

	case domain.RatingGood:
		next := step + 1
		if next >= len(steps) {
			return s.graduate(c)
		}
		c.LearningSteps = next
		return steps[next]

	default: // Easy skips the remaining steps.
		return s.graduate(c)
	}
}

// stepReview handles a grading while the card is in Review.
func (s *Service) stepReview(c *domain.Card, rating domain.Rating) time.Duration {
	if rating == domain.RatingAgain {
		c.Lapses++
		if len(s.relearningSteps) > 0 {
			c.State = domain.StateRelearning
			c.LearningSteps = 0
			return s.relearningSteps[0]
		}
		// No relearning steps configured: stay in Review on a short
		// recomputed interval.
	}

	days := s.model.nextInterval(c.Stability, s.desiredRetention, s.maximumInterval)
	return time.Duration(days) * hoursPerDay * time.Hour
}

// graduate moves a Learning/Relearning card into the Review cycle.
func (s *Service) graduate(c *domain.Card) time.Duration {
	c.State = domain.StateReview
	c.LearningSteps = 0
	days := s.model.nextInterval(c.Stability, s.desiredRetention, s.maximumInterval)
	return time.Duration(days) * hoursPerDay * time.Hour
}
