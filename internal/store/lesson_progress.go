package store

import (
	"context"
	"database/sql"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

// LessonProgressStore defines the interface for per-lesson progress rows.
// Version: 1.0
type LessonProgressStore interface {
	// Get retrieves the progress row for a lesson.
	// Returns ErrLessonProgressNotFound if no row exists.
	Get(ctx context.Context, lessonID string) (*domain.LessonProgress, error)

	// Upsert inserts or replaces the progress row keyed by lesson ID in a
	// single statement, avoiding a read-then-branch race.
	Upsert(ctx context.Context, progress *domain.LessonProgress) error

	// List returns all persisted progress rows. Lessons without a row have
	// implicit default progress (locked, empty done-sets).
	List(ctx context.Context) ([]*domain.LessonProgress, error)

	// WithTx returns a LessonProgressStore bound to the provided transaction.
	WithTx(tx *sql.Tx) LessonProgressStore
}
