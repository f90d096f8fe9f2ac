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

// cardColumns is the column list shared by every card SELECT.
const cardColumns = `id, item_id, item_type, card_type, state, due, stability,
	difficulty, elapsed_days, scheduled_days, learning_steps, reps, lapses,
	last_review, created_at, updated_at`

// PostgresCardStore implements store.CardStore on PostgreSQL.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a PostgreSQL implementation of CardStore.
// The database handle is initialized and managed by the caller. If logger
// is nil, the process default is used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.ItemID, card.ItemType, card.CardType, card.State.String(),
		card.Due, card.Stability, card.Difficulty, card.ElapsedDays,
		card.ScheduledDays, card.LearningSteps, card.Reps, card.Lapses,
		card.LastReview, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrCardExists
		}
		return store.NewStoreError("card", "create", "insert failed", err)
	}

	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	const query = `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, store.NewStoreError("card", "get", "query failed", err)
	}

	return card, nil
}

// GetByItem implements store.CardStore.GetByItem
func (s *PostgresCardStore) GetByItem(ctx context.Context, itemType domain.ItemType, itemID int64) ([]*domain.Card, error) {
	const query = `SELECT ` + cardColumns + `
		FROM cards
		WHERE item_type = $1 AND item_id = $2
		ORDER BY card_type`

	rows, err := s.db.QueryContext(ctx, query, itemType, itemID)
	if err != nil {
		return nil, store.NewStoreError("card", "get_by_item", "query failed", err)
	}
	defer closeRows(rows, s.logger)

	return scanCards(rows)
}

// Update implements store.CardStore.Update
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		UPDATE cards
		SET state = $2, due = $3, stability = $4, difficulty = $5,
			elapsed_days = $6, scheduled_days = $7, learning_steps = $8,
			reps = $9, lapses = $10, last_review = $11, updated_at = $12
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		card.ID, card.State.String(), card.Due, card.Stability, card.Difficulty,
		card.ElapsedDays, card.ScheduledDays, card.LearningSteps,
		card.Reps, card.Lapses, card.LastReview, card.UpdatedAt)
	if err != nil {
		return store.NewStoreError("card", "update", "update failed", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("card", "update", "rows affected failed", err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// QueryDue implements store.CardStore.QueryDue
func (s *PostgresCardStore) QueryDue(ctx context.Context, now time.Time, limit int) ([]*domain.Card, error) {
	if limit <= 0 {
		return []*domain.Card{}, nil
	}

	const query = `SELECT ` + cardColumns + `
		FROM cards
		WHERE due <= $1 AND state <> 'new'
		ORDER BY due ASC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, store.NewStoreError("card", "query_due", "query failed", err)
	}
	defer closeRows(rows, s.logger)

	return scanCards(rows)
}

// QueryNew implements store.CardStore.QueryNew
func (s *PostgresCardStore) QueryNew(ctx context.Context, limit int) ([]*domain.Card, error) {
	if limit <= 0 {
		return []*domain.Card{}, nil
	}

	// Creation order is the curriculum's introduction order.
	const query = `SELECT ` + cardColumns + `
		FROM cards
		WHERE state = 'new'
		ORDER BY created_at ASC, id ASC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, store.NewStoreError("card", "query_new", "query failed", err)
	}
	defer closeRows(rows, s.logger)

	return scanCards(rows)
}

// CountByState implements store.CardStore.CountByState
func (s *PostgresCardStore) CountByState(ctx context.Context) (map[domain.State]int, error) {
	const query = `SELECT state, COUNT(*) FROM cards GROUP BY state`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.NewStoreError("card", "count_by_state", "query failed", err)
	}
	defer closeRows(rows, s.logger)

	counts := make(map[domain.State]int)
	for rows.Next() {
		var stateName string
		var n int
		if err := rows.Scan(&stateName, &n); err != nil {
			return nil, store.NewStoreError("card", "count_by_state", "scan failed", err)
		}
		var state domain.State
		if err := state.UnmarshalText([]byte(stateName)); err != nil {
			return nil, store.NewStoreError("card", "count_by_state", "bad state value", err)
		}
		counts[state] = n
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "count_by_state", "iteration failed", err)
	}

	return counts, nil
}

// CountDue implements store.CardStore.CountDue
func (s *PostgresCardStore) CountDue(ctx context.Context, now time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM cards WHERE due <= $1 AND state <> 'new'`

	var n int
	if err := s.db.QueryRowContext(ctx, query, now).Scan(&n); err != nil {
		return 0, store.NewStoreError("card", "count_due", "query failed", err)
	}

	return n, nil
}

// CountKnown implements store.CardStore.CountKnown
func (s *PostgresCardStore) CountKnown(ctx context.Context, stabilityThreshold float64) (int, error) {
	const query = `SELECT COUNT(*) FROM cards WHERE state = 'review' AND stability >= $1`

	var n int
	if err := s.db.QueryRowContext(ctx, query, stabilityThreshold).Scan(&n); err != nil {
		return 0, store.NewStoreError("card", "count_known", "query failed", err)
	}

	return n, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads one card row.
func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card       domain.Card
		stateName  string
		lastReview sql.NullTime
	)

	err := row.Scan(
		&card.ID, &card.ItemID, &card.ItemType, &card.CardType, &stateName,
		&card.Due, &card.Stability, &card.Difficulty, &card.ElapsedDays,
		&card.ScheduledDays, &card.LearningSteps, &card.Reps, &card.Lapses,
		&lastReview, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := card.State.UnmarshalText([]byte(stateName)); err != nil {
		return nil, err
	}
	if lastReview.Valid {
		t := lastReview.Time
		card.LastReview = &t
	}

	return &card, nil
}

// scanCards reads all card rows from a result set.
func scanCards(rows *sql.Rows) ([]*domain.Card, error) {
	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "scan", "scan failed", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "scan", "iteration failed", err)
	}
	return cards, nil
}

// closeRows closes a result set, logging close failures.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Warn("failed to close rows", slog.String("error", err.Error()))
	}
}
