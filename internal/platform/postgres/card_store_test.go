package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/platform/postgres"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var cardRowColumns = []string{
	"id", "item_id", "item_type", "card_type", "state", "due", "stability",
	"difficulty", "elapsed_days", "scheduled_days", "learning_steps", "reps",
	"lapses", "last_review", "created_at", "updated_at",
}

func addCardRow(rows *sqlmock.Rows, card *domain.Card) {
	var lastReview any
	if card.LastReview != nil {
		lastReview = *card.LastReview
	}
	rows.AddRow(
		card.ID.String(), card.ItemID, string(card.ItemType), string(card.CardType),
		card.State.String(), card.Due, card.Stability, card.Difficulty,
		card.ElapsedDays, card.ScheduledDays, card.LearningSteps, card.Reps,
		card.Lapses, lastReview, card.CreatedAt, card.UpdatedAt)
}

func TestCardStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCardStore(db, nil)

		card, err := domain.NewCard(domain.ItemTypeRadical, 1, domain.CardTypeRecognition)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO cards").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), card))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate triple maps to ErrCardExists", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCardStore(db, nil)

		card, err := domain.NewCard(domain.ItemTypeRadical, 1, domain.CardTypeRecognition)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO cards").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		assert.ErrorIs(t, s.Create(context.Background(), card), store.ErrCardExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid card never reaches the database", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCardStore(db, nil)

		card, err := domain.NewCard(domain.ItemTypeRadical, 1, domain.CardTypeRecognition)
		require.NoError(t, err)
		card.Stability = -1
		card.State = domain.StateReview

		assert.ErrorIs(t, s.Create(context.Background(), card), store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCardStoreGetByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCardStore(db, nil)

		card, err := domain.NewCard(domain.ItemTypeCharacter, 101, domain.CardTypeRecall)
		require.NoError(t, err)
		card.State = domain.StateReview
		card.Stability = 12.5
		card.Reps = 3
		lr := time.Now().UTC().Add(-48 * time.Hour)
		card.LastReview = &lr

		rows := sqlmock.NewRows(cardRowColumns)
		addCardRow(rows, card)
		mock.ExpectQuery("SELECT (.+) FROM cards WHERE id").
			WithArgs(card.ID).
			WillReturnRows(rows)

		got, err := s.GetByID(context.Background(), card.ID)
		require.NoError(t, err)
		assert.Equal(t, card.ID, got.ID)
		assert.Equal(t, domain.StateReview, got.State)
		assert.Equal(t, 12.5, got.Stability)
		require.NotNil(t, got.LastReview)
		assert.WithinDuration(t, lr, *got.LastReview, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrCardNotFound", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCardStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM cards WHERE id").
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrCardNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCardStoreUpdateMissing(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, nil)

	card, err := domain.NewCard(domain.ItemTypeRadical, 2, domain.CardTypeRecall)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE cards").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Update(context.Background(), card), store.ErrCardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStoreQueryLimits(t *testing.T) {
	t.Parallel()

	// A non-positive limit short-circuits without touching the database.
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, nil)

	due, err := s.QueryDue(context.Background(), time.Now().UTC(), 0)
	require.NoError(t, err)
	assert.Empty(t, due)

	fresh, err := s.QueryNew(context.Background(), -5)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStoreQueryDue(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, nil)

	now := time.Now().UTC()
	first, err := domain.NewCard(domain.ItemTypeRadical, 1, domain.CardTypeRecognition)
	require.NoError(t, err)
	first.State = domain.StateReview
	first.Stability = 5
	first.Reps = 1

	rows := sqlmock.NewRows(cardRowColumns)
	addCardRow(rows, first)
	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs(now, 10).
		WillReturnRows(rows)

	got, err := s.QueryDue(context.Background(), now, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStoreCounts(t *testing.T) {
	t.Parallel()

	t.Run("count by state", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCardStore(db, nil)

		rows := sqlmock.NewRows([]string{"state", "count"}).
			AddRow("new", 8).
			AddRow("learning", 3).
			AddRow("review", 12)
		mock.ExpectQuery("SELECT state, COUNT").WillReturnRows(rows)

		counts, err := s.CountByState(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[domain.State]int{
			domain.StateNew:      8,
			domain.StateLearning: 3,
			domain.StateReview:   12,
		}, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count known", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCardStore(db, nil)

		mock.ExpectQuery("SELECT COUNT").
			WithArgs(21.0).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		n, err := s.CountKnown(context.Background(), 21.0)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
