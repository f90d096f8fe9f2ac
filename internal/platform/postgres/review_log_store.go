package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

// PostgresReviewLogStore implements store.ReviewLogStore on PostgreSQL.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a PostgreSQL implementation of
// ReviewLogStore. If logger is nil, the process default is used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{db: tx, logger: s.logger}
}

// Append implements store.ReviewLogStore.Append
func (s *PostgresReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO review_logs (id, card_id, rating, state, due, stability,
			difficulty, elapsed_days, scheduled_days, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.CardID, entry.Rating.String(), entry.State.String(),
		entry.Due, entry.Stability, entry.Difficulty, entry.ElapsedDays,
		entry.ScheduledDays, entry.Timestamp)
	if err != nil {
		return store.NewStoreError("review_log", "append", "insert failed", err)
	}

	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
func (s *PostgresReviewLogStore) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.ReviewLog, error) {
	const query = `
		SELECT id, card_id, rating, state, due, stability, difficulty,
			elapsed_days, scheduled_days, reviewed_at
		FROM review_logs
		WHERE card_id = $1
		ORDER BY reviewed_at ASC`

	rows, err := s.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, store.NewStoreError("review_log", "list_by_card", "query failed", err)
	}
	defer closeRows(rows, s.logger)

	logs := []*domain.ReviewLog{}
	for rows.Next() {
		var (
			entry      domain.ReviewLog
			ratingName string
			stateName  string
		)
		err := rows.Scan(
			&entry.ID, &entry.CardID, &ratingName, &stateName, &entry.Due,
			&entry.Stability, &entry.Difficulty, &entry.ElapsedDays,
			&entry.ScheduledDays, &entry.Timestamp)
		if err != nil {
			return nil, store.NewStoreError("review_log", "list_by_card", "scan failed", err)
		}
		if err := entry.Rating.UnmarshalText([]byte(ratingName)); err != nil {
			return nil, store.NewStoreError("review_log", "list_by_card", "bad rating value", err)
		}
		if err := entry.State.UnmarshalText([]byte(stateName)); err != nil {
			return nil, store.NewStoreError("review_log", "list_by_card", "bad state value", err)
		}
		logs = append(logs, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_log", "list_by_card", "iteration failed", err)
	}

	return logs, nil
}
