package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

// ReviewLogStore defines the interface for the append-only grading log.
// Entries are written once per grading event and are never updated or
// deleted; the live scheduling path never reads them back.
// Version: 1.0
type ReviewLogStore interface {
	// Append writes one grading event.
	Append(ctx context.Context, entry *domain.ReviewLog) error

	// ListByCard returns a card's grading history, oldest first.
	// For calibration and analytics only.
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.ReviewLog, error)

	// WithTx returns a ReviewLogStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
