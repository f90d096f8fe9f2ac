package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewLog validation errors
var (
	// ErrReviewLogIDEmpty is returned when a review log ID is empty or nil.
	ErrReviewLogIDEmpty = errors.New("review log ID cannot be empty")

	// ErrReviewLogCardIDEmpty is returned when the referenced card ID is empty.
	ErrReviewLogCardIDEmpty = errors.New("review log card ID cannot be empty")

	// ErrReviewLogRatingInvalid is returned when the rating is out of range.
	ErrReviewLogRatingInvalid = errors.New("review log rating is invalid")
)

// ReviewLog is one row per grading event, written by the scheduling core
// for calibration and analytics. Rows are append-only: never updated,
// never deleted, and never read back into the live scheduling path.
type ReviewLog struct {
	ID     uuid.UUID `json:"id"`
	CardID uuid.UUID `json:"card_id"`
	Rating Rating    `json:"rating"`
	State  State     `json:"state"` // Card state before the grading.

	// Schedule resulting from the grading.
	Due           time.Time `json:"due"`
	Stability     float64   `json:"stability"`
	Difficulty    float64   `json:"difficulty"`
	ElapsedDays   float64   `json:"elapsed_days"`
	ScheduledDays float64   `json:"scheduled_days"`

	Timestamp time.Time `json:"timestamp"`
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.ID == uuid.Nil {
		return ErrReviewLogIDEmpty
	}

	if l.CardID == uuid.Nil {
		return ErrReviewLogCardIDEmpty
	}

	if !l.Rating.IsValid() {
		return ErrReviewLogRatingInvalid
	}

	return nil
}
