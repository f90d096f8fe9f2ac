package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

// CardStore defines the interface for card persistence.
// Version: 1.0
type CardStore interface {
	// Create saves a single card. Returns ErrCardExists if a card for the
	// same (item type, item id, card type) triple already exists, and
	// validation errors wrapped in ErrInvalidEntity if the card is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards. Run it within a transaction via
	// WithTx + RunInTransaction when atomicity across cards matters, e.g.
	// when introducing an item's recognition/recall pair together.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetByItem retrieves all cards for one content item, recognition and
	// recall streams alike. Returns an empty slice when the item has not
	// been introduced.
	GetByItem(ctx context.Context, itemType domain.ItemType, itemID int64) ([]*domain.Card, error)

	// Update overwrites a card's scheduling fields.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// QueryDue returns cards with due <= now and state != new, ordered by
	// ascending due (oldest overdue first), truncated to limit.
	// A limit <= 0 returns an empty slice.
	QueryDue(ctx context.Context, now time.Time, limit int) ([]*domain.Card, error)

	// QueryNew returns cards in the new state in stable introduction order
	// (creation order), truncated to limit. A limit <= 0 returns an empty
	// slice.
	QueryNew(ctx context.Context, limit int) ([]*domain.Card, error)

	// CountByState returns the number of cards per lifecycle state.
	CountByState(ctx context.Context) (map[domain.State]int, error)

	// CountDue returns the number of cards with due <= now and state != new.
	CountDue(ctx context.Context, now time.Time) (int, error)

	// CountKnown returns the number of review-state cards whose stability
	// has reached the given threshold.
	CountKnown(ctx context.Context, stabilityThreshold float64) (int, error)

	// WithTx returns a CardStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
