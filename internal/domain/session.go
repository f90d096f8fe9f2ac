package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StudySession validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")

	// ErrSessionStartTimeZero is returned when a session has no start time.
	ErrSessionStartTimeZero = errors.New("session start time cannot be zero")

	// ErrSessionCountersNegative is returned when a session counter is below zero.
	ErrSessionCountersNegative = errors.New("session counters cannot be negative")
)

// SessionPhase is the advisory stage of a study session. Phases guide the
// UI through the session flow; they never gate scheduling decisions.
type SessionPhase string

const (
	PhaseReview   SessionPhase = "review"
	PhaseNew      SessionPhase = "new"
	PhasePractice SessionPhase = "practice"
	PhaseSummary  SessionPhase = "summary"
)

var phaseOrder = []SessionPhase{PhaseReview, PhaseNew, PhasePractice, PhaseSummary}

// IsValid reports whether p is a defined phase.
func (p SessionPhase) IsValid() bool {
	for _, v := range phaseOrder {
		if p == v {
			return true
		}
	}
	return false
}

// Next returns the phase following p in the session flow. Summary is
// terminal; unknown phases collapse to summary.
func (p SessionPhase) Next() SessionPhase {
	for i, v := range phaseOrder {
		if p == v && i < len(phaseOrder)-1 {
			return phaseOrder[i+1]
		}
	}
	return PhaseSummary
}

// ParseSessionPhase converts a string into a SessionPhase, rejecting
// unknown values.
func ParseSessionPhase(s string) (SessionPhase, error) {
	p := SessionPhase(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid session phase: %q", s)
	}
	return p, nil
}

// StudySession is one time-boxed study interaction. Created when the
// learner starts studying, its counters are incremented as cards are
// graded, and it is closed when the time budget runs out or the learner
// stops.
type StudySession struct {
	ID              uuid.UUID    `json:"id"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         *time.Time   `json:"end_time,omitempty"`
	CardsReviewed   int          `json:"cards_reviewed"`
	NewItemsLearned int          `json:"new_items_learned"`
	Phase           SessionPhase `json:"phase"`
}

// NewStudySession creates an active session starting at the given time,
// in the review phase with zeroed counters.
func NewStudySession(start time.Time) (*StudySession, error) {
	s := &StudySession{
		ID:        uuid.New(),
		StartTime: start,
		Phase:     PhaseReview,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.StartTime.IsZero() {
		return ErrSessionStartTimeZero
	}

	if s.CardsReviewed < 0 || s.NewItemsLearned < 0 {
		return ErrSessionCountersNegative
	}

	if !s.Phase.IsValid() {
		return fmt.Errorf("invalid session phase: %q", s.Phase)
	}

	return nil
}

// Ended reports whether the session has been closed.
func (s *StudySession) Ended() bool {
	return s.EndTime != nil
}

// Deadline returns the moment the session's time budget expires.
func (s *StudySession) Deadline(sessionLength time.Duration) time.Time {
	return s.StartTime.Add(sessionLength)
}

// Remaining returns the time left in the session budget, floored at zero.
// A closed session measures against its end time instead of now.
func (s *StudySession) Remaining(sessionLength time.Duration, now time.Time) time.Duration {
	ref := now
	if s.EndTime != nil {
		ref = *s.EndTime
	}
	left := s.Deadline(sessionLength).Sub(ref)
	if left < 0 {
		return 0
	}
	return left
}
