package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardItemIDInvalid is returned when a card's item ID is not positive.
	ErrCardItemIDInvalid = errors.New("card item ID must be positive")

	// ErrCardItemTypeInvalid is returned when a card's item type is unknown.
	ErrCardItemTypeInvalid = errors.New("card item type must be radical or character")

	// ErrCardTypeInvalid is returned when a card's card type is unknown.
	ErrCardTypeInvalid = errors.New("card type must be recognition or recall")

	// ErrCardStateInvalid is returned when a card's state is out of range.
	ErrCardStateInvalid = errors.New("card state is invalid")

	// ErrCardStabilityNegative is returned when stability is below zero.
	ErrCardStabilityNegative = errors.New("card stability cannot be negative")

	// ErrCardNewNotPristine is returned when a card in the New state carries
	// review history. A New card has never been graded.
	ErrCardNewNotPristine = errors.New("new card cannot have reps, lapses or stability")
)

// Card is the schedulable unit: one recall direction of one content item.
// The (ItemType, ItemID, CardType) triple is unique; the scheduling fields
// are owned exclusively by the srs engine.
type Card struct {
	ID       uuid.UUID `json:"id"`
	ItemID   int64     `json:"item_id"`
	ItemType ItemType  `json:"item_type"`
	CardType CardType  `json:"card_type"`

	State         State      `json:"state"`
	Due           time.Time  `json:"due"`
	Stability     float64    `json:"stability"`      // Estimated days to target-retention decay; 0 while New.
	Difficulty    float64    `json:"difficulty"`     // Bounded scalar, higher = harder to retain.
	ElapsedDays   float64    `json:"elapsed_days"`   // Days since the previous review at grading time.
	ScheduledDays float64    `json:"scheduled_days"` // Interval scheduled at the previous review.
	LearningSteps int        `json:"learning_steps"` // Sub-day steps completed in Learning/Relearning.
	Reps          int        `json:"reps"`           // Total gradings.
	Lapses        int        `json:"lapses"`         // Again-while-in-Review events.
	LastReview    *time.Time `json:"last_review,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a Card in the New state for the given item and direction.
// Due is set to now so the card is immediately eligible for introduction.
// Returns an error if validation fails.
func NewCard(itemType ItemType, itemID int64, cardType CardType) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		ItemID:    itemID,
		ItemType:  itemType,
		CardType:  cardType,
		State:     StateNew,
		Due:       now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.ItemID <= 0 {
		return ErrCardItemIDInvalid
	}

	if !c.ItemType.IsValid() {
		return ErrCardItemTypeInvalid
	}

	if !c.CardType.IsValid() {
		return ErrCardTypeInvalid
	}

	if !c.State.IsValid() {
		return ErrCardStateInvalid
	}

	if c.Stability < 0 {
		return ErrCardStabilityNegative
	}

	if c.State == StateNew && (c.Reps != 0 || c.Lapses != 0 || c.Stability != 0) {
		return ErrCardNewNotPristine
	}

	return nil
}

// Clone returns a deep copy of the card. Pointer fields are copied by value.
func (c *Card) Clone() *Card {
	out := *c
	if c.LastReview != nil {
		v := *c.LastReview
		out.LastReview = &v
	}
	return &out
}
