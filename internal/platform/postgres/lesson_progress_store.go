package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

// PostgresLessonProgressStore implements store.LessonProgressStore on
// PostgreSQL. Done-sets are stored as JSONB arrays.
type PostgresLessonProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLessonProgressStore creates a PostgreSQL implementation of
// LessonProgressStore. If logger is nil, the process default is used.
func NewPostgresLessonProgressStore(db store.DBTX, logger *slog.Logger) *PostgresLessonProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLessonProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_progress_store")),
	}
}

// Ensure PostgresLessonProgressStore implements store.LessonProgressStore
var _ store.LessonProgressStore = (*PostgresLessonProgressStore)(nil)

// WithTx implements store.LessonProgressStore.WithTx
func (s *PostgresLessonProgressStore) WithTx(tx *sql.Tx) store.LessonProgressStore {
	return &PostgresLessonProgressStore{db: tx, logger: s.logger}
}

// Get implements store.LessonProgressStore.Get
func (s *PostgresLessonProgressStore) Get(ctx context.Context, lessonID string) (*domain.LessonProgress, error) {
	const query = `
		SELECT lesson_id, status, radicals_done, characters_done, completed_at, updated_at
		FROM lesson_progress
		WHERE lesson_id = $1`

	progress, err := scanLessonProgress(s.db.QueryRowContext(ctx, query, lessonID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLessonProgressNotFound
		}
		return nil, store.NewStoreError("lesson_progress", "get", "query failed", err)
	}

	return progress, nil
}

// Upsert implements store.LessonProgressStore.Upsert
func (s *PostgresLessonProgressStore) Upsert(ctx context.Context, progress *domain.LessonProgress) error {
	radicals, err := json.Marshal(progress.RadicalsDone)
	if err != nil {
		return fmt.Errorf("%w: radicals done: %v", store.ErrInvalidEntity, err)
	}
	characters, err := json.Marshal(progress.CharactersDone)
	if err != nil {
		return fmt.Errorf("%w: characters done: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO lesson_progress (lesson_id, status, radicals_done,
			characters_done, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (lesson_id) DO UPDATE
		SET status = EXCLUDED.status,
			radicals_done = EXCLUDED.radicals_done,
			characters_done = EXCLUDED.characters_done,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		progress.LessonID, string(progress.Status), radicals, characters,
		progress.CompletedAt, progress.UpdatedAt)
	if err != nil {
		return store.NewStoreError("lesson_progress", "upsert", "upsert failed", err)
	}

	return nil
}

// List implements store.LessonProgressStore.List
func (s *PostgresLessonProgressStore) List(ctx context.Context) ([]*domain.LessonProgress, error) {
	const query = `
		SELECT lesson_id, status, radicals_done, characters_done, completed_at, updated_at
		FROM lesson_progress
		ORDER BY lesson_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.NewStoreError("lesson_progress", "list", "query failed", err)
	}
	defer closeRows(rows, s.logger)

	out := []*domain.LessonProgress{}
	for rows.Next() {
		progress, err := scanLessonProgress(rows)
		if err != nil {
			return nil, store.NewStoreError("lesson_progress", "list", "scan failed", err)
		}
		out = append(out, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("lesson_progress", "list", "iteration failed", err)
	}

	return out, nil
}

// scanLessonProgress reads one lesson progress row, decoding the JSONB
// done-sets.
func scanLessonProgress(row rowScanner) (*domain.LessonProgress, error) {
	var (
		progress    domain.LessonProgress
		statusName  string
		radicals    []byte
		characters  []byte
		completedAt sql.NullTime
	)

	err := row.Scan(&progress.LessonID, &statusName, &radicals, &characters,
		&completedAt, &progress.UpdatedAt)
	if err != nil {
		return nil, err
	}

	status := domain.LessonStatus(statusName)
	if !status.IsValid() {
		return nil, fmt.Errorf("bad lesson status value: %q", statusName)
	}
	progress.Status = status

	if err := json.Unmarshal(radicals, &progress.RadicalsDone); err != nil {
		return nil, fmt.Errorf("decode radicals done: %w", err)
	}
	if err := json.Unmarshal(characters, &progress.CharactersDone); err != nil {
		return nil, fmt.Errorf("decode characters done: %w", err)
	}

	if completedAt.Valid {
		t := completedAt.Time
		progress.CompletedAt = &t
	}

	return &progress, nil
}
