package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

func TestSessionPhaseNext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.PhaseNew, domain.PhaseReview.Next())
	assert.Equal(t, domain.PhasePractice, domain.PhaseNew.Next())
	assert.Equal(t, domain.PhaseSummary, domain.PhasePractice.Next())

	// Summary is terminal; unknown phases collapse to summary too.
	assert.Equal(t, domain.PhaseSummary, domain.PhaseSummary.Next())
	assert.Equal(t, domain.PhaseSummary, domain.SessionPhase("warmup").Next())
}

func TestParseSessionPhase(t *testing.T) {
	t.Parallel()

	p, err := domain.ParseSessionPhase("practice")
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePractice, p)

	_, err = domain.ParseSessionPhase("cooldown")
	assert.Error(t, err)
}

func TestNewStudySession(t *testing.T) {
	t.Parallel()

	start := time.Now().UTC()
	s, err := domain.NewStudySession(start)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseReview, s.Phase)
	assert.Zero(t, s.CardsReviewed)
	assert.Zero(t, s.NewItemsLearned)
	assert.Nil(t, s.EndTime)
	assert.False(t, s.Ended())
}

func TestSessionRemaining(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	length := 30 * time.Minute

	s, err := domain.NewStudySession(start)
	require.NoError(t, err)

	t.Run("mid-session", func(t *testing.T) {
		t.Parallel()
		got := s.Remaining(length, start.Add(10*time.Minute))
		assert.Equal(t, 20*time.Minute, got)
	})

	t.Run("past deadline floors at zero", func(t *testing.T) {
		t.Parallel()
		got := s.Remaining(length, start.Add(45*time.Minute))
		assert.Equal(t, time.Duration(0), got)
	})

	t.Run("closed session measures against end time", func(t *testing.T) {
		t.Parallel()
		closed := *s
		end := start.Add(12 * time.Minute)
		closed.EndTime = &end
		got := closed.Remaining(length, start.Add(2*time.Hour))
		assert.Equal(t, 18*time.Minute, got)
	})
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()

	s, err := domain.NewStudySession(time.Now().UTC())
	require.NoError(t, err)

	s.CardsReviewed = -1
	assert.ErrorIs(t, s.Validate(), domain.ErrSessionCountersNegative)

	s.CardsReviewed = 0
	s.Phase = domain.SessionPhase("bogus")
	assert.Error(t, s.Validate())
}
