package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

// SessionStore defines the interface for study session persistence.
// Version: 1.0
type SessionStore interface {
	// Create persists a newly started session.
	Create(ctx context.Context, session *domain.StudySession) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// Update overwrites a session's counters, phase, and end time.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.StudySession) error

	// ListOpenBefore returns sessions without an end time whose start time
	// is at or before the cutoff. Used by the expiry sweeper to close
	// sessions whose time budget has run out.
	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]*domain.StudySession, error)

	// WithTx returns a SessionStore bound to the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}
