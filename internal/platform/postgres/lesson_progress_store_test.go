package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/platform/postgres"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

var lessonProgressColumns = []string{
	"lesson_id", "status", "radicals_done", "characters_done", "completed_at", "updated_at",
}

func TestLessonProgressStoreGet(t *testing.T) {
	t.Parallel()

	t.Run("found decodes done-sets", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresLessonProgressStore(db, nil)

		rows := sqlmock.NewRows(lessonProgressColumns).
			AddRow("lesson-1", "in_progress", []byte(`["人"]`), []byte(`["你","们"]`),
				nil, time.Now().UTC())
		mock.ExpectQuery("SELECT (.+) FROM lesson_progress").
			WithArgs("lesson-1").
			WillReturnRows(rows)

		got, err := s.Get(context.Background(), "lesson-1")
		require.NoError(t, err)
		assert.Equal(t, domain.LessonInProgress, got.Status)
		assert.Equal(t, []string{"人"}, got.RadicalsDone)
		assert.Equal(t, []string{"你", "们"}, got.CharactersDone)
		assert.Nil(t, got.CompletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrLessonProgressNotFound", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresLessonProgressStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM lesson_progress").
			WillReturnError(sql.ErrNoRows)

		_, err := s.Get(context.Background(), "lesson-9")
		assert.ErrorIs(t, err, store.ErrLessonProgressNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad status value fails", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresLessonProgressStore(db, nil)

		rows := sqlmock.NewRows(lessonProgressColumns).
			AddRow("lesson-1", "paused", []byte(`[]`), []byte(`[]`), nil, time.Now().UTC())
		mock.ExpectQuery("SELECT (.+) FROM lesson_progress").WillReturnRows(rows)

		_, err := s.Get(context.Background(), "lesson-1")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrLessonProgressNotFound)
	})
}

func TestLessonProgressStoreUpsert(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewPostgresLessonProgressStore(db, nil)

	progress, err := domain.NewLessonProgress("lesson-2", domain.LessonInProgress)
	require.NoError(t, err)
	progress.MarkDone(domain.ItemTypeRadical, "日")

	mock.ExpectExec("INSERT INTO lesson_progress").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Upsert(context.Background(), progress))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonProgressStoreList(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewPostgresLessonProgressStore(db, nil)

	completedAt := time.Now().UTC().Add(-time.Hour)
	rows := sqlmock.NewRows(lessonProgressColumns).
		AddRow("lesson-1", "completed", []byte(`["人","口"]`), []byte(`["你","们"]`),
			completedAt, time.Now().UTC()).
		AddRow("lesson-2", "available", []byte(`[]`), []byte(`[]`), nil, time.Now().UTC())
	mock.ExpectQuery("SELECT (.+) FROM lesson_progress").WillReturnRows(rows)

	got, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.LessonCompleted, got[0].Status)
	require.NotNil(t, got[0].CompletedAt)
	assert.Equal(t, domain.LessonAvailable, got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
