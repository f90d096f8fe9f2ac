package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

// PostgresSessionStore implements store.SessionStore on PostgreSQL.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a PostgreSQL implementation of
// SessionStore. If logger is nil, the process default is used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO study_sessions (id, start_time, end_time, cards_reviewed,
			new_items_learned, phase)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.StartTime, session.EndTime,
		session.CardsReviewed, session.NewItemsLearned, string(session.Phase))
	if err != nil {
		return store.NewStoreError("study_session", "create", "insert failed", err)
	}

	return nil
}

// Get implements store.SessionStore.Get
func (s *PostgresSessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	const query = `
		SELECT id, start_time, end_time, cards_reviewed, new_items_learned, phase
		FROM study_sessions
		WHERE id = $1`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, store.NewStoreError("study_session", "get", "query failed", err)
	}

	return session, nil
}

// Update implements store.SessionStore.Update
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		UPDATE study_sessions
		SET end_time = $2, cards_reviewed = $3, new_items_learned = $4, phase = $5
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		session.ID, session.EndTime, session.CardsReviewed,
		session.NewItemsLearned, string(session.Phase))
	if err != nil {
		return store.NewStoreError("study_session", "update", "update failed", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("study_session", "update", "rows affected failed", err)
	}
	if affected == 0 {
		return store.ErrSessionNotFound
	}

	return nil
}

// ListOpenBefore implements store.SessionStore.ListOpenBefore
func (s *PostgresSessionStore) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]*domain.StudySession, error) {
	const query = `
		SELECT id, start_time, end_time, cards_reviewed, new_items_learned, phase
		FROM study_sessions
		WHERE end_time IS NULL AND start_time <= $1
		ORDER BY start_time ASC`

	rows, err := s.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, store.NewStoreError("study_session", "list_open", "query failed", err)
	}
	defer closeRows(rows, s.logger)

	sessions := []*domain.StudySession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, store.NewStoreError("study_session", "list_open", "scan failed", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("study_session", "list_open", "iteration failed", err)
	}

	return sessions, nil
}

// scanSession reads one study session row.
func scanSession(row rowScanner) (*domain.StudySession, error) {
	var (
		session   domain.StudySession
		endTime   sql.NullTime
		phaseName string
	)

	err := row.Scan(
		&session.ID, &session.StartTime, &endTime,
		&session.CardsReviewed, &session.NewItemsLearned, &phaseName)
	if err != nil {
		return nil, err
	}

	phase, err := domain.ParseSessionPhase(phaseName)
	if err != nil {
		return nil, err
	}
	session.Phase = phase

	if endTime.Valid {
		t := endTime.Time
		session.EndTime = &t
	}

	return &session, nil
}
