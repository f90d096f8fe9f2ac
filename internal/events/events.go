package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

// ItemIntroducedEvent signals that an item's card left the new state for
// the first time. Emitted once per card, after the grading transaction
// commits.
type ItemIntroducedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// ItemType and ItemID identify the curriculum item
	ItemType domain.ItemType `json:"item_type"`
	ItemID   int64           `json:"item_id"`

	// CardID is the card whose first grading produced the event
	CardID uuid.UUID `json:"card_id"`

	// OccurredAt is when the grading happened
	OccurredAt time.Time `json:"occurred_at"`
}

// NewItemIntroducedEvent creates an event for the given item and card.
func NewItemIntroducedEvent(itemType domain.ItemType, itemID int64, cardID uuid.UUID, occurredAt time.Time) *ItemIntroducedEvent {
	return &ItemIntroducedEvent{
		ID:         uuid.New(),
		ItemType:   itemType,
		ItemID:     itemID,
		CardID:     cardID,
		OccurredAt: occurredAt,
	}
}

// Handler processes item-introduced events.
type Handler interface {
	// HandleItemIntroduced processes the given event within the provided
	// context. Returns an error if the event cannot be handled.
	HandleItemIntroduced(ctx context.Context, event *ItemIntroducedEvent) error
}

// Emitter publishes item-introduced events to registered handlers. It
// allows the review service to announce milestones without direct
// knowledge of who reacts to them.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	Emit(ctx context.Context, event *ItemIntroducedEvent) error
}
