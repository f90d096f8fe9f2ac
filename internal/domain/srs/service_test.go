package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/domain/srs"
)

func newEngine(t *testing.T, p srs.Params) *srs.Service {
	t.Helper()
	engine, err := srs.NewService(p)
	require.NoError(t, err)
	return engine
}

func newTestCard(t *testing.T) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(domain.ItemTypeCharacter, 101, domain.CardTypeRecognition)
	require.NoError(t, err)
	return card
}

func TestGradeFirstReviewEntersLearning(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	card := newTestCard(t)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	graded, log, err := engine.Grade(card, domain.RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, domain.StateLearning, graded.State)
	assert.Equal(t, 1, graded.Reps)
	assert.Zero(t, graded.Lapses)
	assert.Positive(t, graded.Stability)
	assert.Positive(t, graded.Difficulty)
	require.NotNil(t, graded.LastReview)
	assert.Equal(t, now, *graded.LastReview)

	// Good from the first step lands on the second sub-day step.
	assert.Equal(t, now.Add(10*time.Minute), graded.Due)
	assert.Zero(t, graded.ScheduledDays)

	require.NotNil(t, log)
	assert.Equal(t, graded.ID, log.CardID)
	assert.Equal(t, domain.StateNew, log.State)
	assert.Equal(t, domain.RatingGood, log.Rating)
	assert.Equal(t, now, log.Timestamp)
}

func TestGradeEasyGraduatesImmediately(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	card := newTestCard(t)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	graded, _, err := engine.Grade(card, domain.RatingEasy, now)
	require.NoError(t, err)

	assert.Equal(t, domain.StateReview, graded.State)
	assert.Zero(t, graded.LearningSteps)
	assert.GreaterOrEqual(t, graded.Due.Sub(now), 24*time.Hour)
	assert.GreaterOrEqual(t, graded.ScheduledDays, 1.0)
}

func TestGradeAgainRepeatsLearningStep(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	card := newTestCard(t)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	graded, _, err := engine.Grade(card, domain.RatingAgain, now)
	require.NoError(t, err)

	assert.Equal(t, domain.StateLearning, graded.State)
	assert.Equal(t, now.Add(time.Minute), graded.Due)
	assert.Zero(t, graded.Lapses, "failures before Review are not lapses")
}

func TestGradeGoodTwiceGraduates(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	card := newTestCard(t)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	first, _, err := engine.Grade(card, domain.RatingGood, now)
	require.NoError(t, err)
	require.Equal(t, domain.StateLearning, first.State)

	second, _, err := engine.Grade(first, domain.RatingGood, first.Due)
	require.NoError(t, err)

	assert.Equal(t, domain.StateReview, second.State)
	assert.Zero(t, second.LearningSteps)
	assert.GreaterOrEqual(t, second.Due.Sub(first.Due), 24*time.Hour)
}

func TestGradeReviewLapse(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	lastReview := now.AddDate(0, 0, -15)

	card := newTestCard(t)
	card.State = domain.StateReview
	card.Stability = 10
	card.Difficulty = 5
	card.Reps = 4
	lr := lastReview
	card.LastReview = &lr

	graded, _, err := engine.Grade(card, domain.RatingAgain, now)
	require.NoError(t, err)

	assert.Equal(t, domain.StateRelearning, graded.State)
	assert.Equal(t, 1, graded.Lapses)
	assert.InDelta(t, 15.0, graded.ElapsedDays, 0.01)
	assert.Less(t, graded.Stability, 10.0, "a lapse shrinks stability")

	// Relearning starts on the configured sub-day step.
	assert.Equal(t, now.Add(10*time.Minute), graded.Due)
}

func TestGradeReviewGoodGrowsInterval(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	lastReview := now.AddDate(0, 0, -10)

	card := newTestCard(t)
	card.State = domain.StateReview
	card.Stability = 10
	card.Difficulty = 5
	card.Reps = 4
	card.LastReview = &lastReview

	graded, _, err := engine.Grade(card, domain.RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, domain.StateReview, graded.State)
	assert.Greater(t, graded.Stability, 10.0)
	assert.Greater(t, graded.ScheduledDays, 10.0)
	assert.Zero(t, graded.Lapses)
}

func TestGradeIntervalNeverExceedsMaximum(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.Params{MaximumInterval: 365})
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	lastReview := now.AddDate(0, 0, -400)

	card := newTestCard(t)
	card.State = domain.StateReview
	card.Stability = 50000
	card.Difficulty = 1
	card.Reps = 20
	card.LastReview = &lastReview

	graded, _, err := engine.Grade(card, domain.RatingEasy, now)
	require.NoError(t, err)

	assert.LessOrEqual(t, graded.Due.Sub(now), 365*24*time.Hour)
	assert.LessOrEqual(t, graded.ScheduledDays, 365.0)
}

func TestGradeClockSkewClampsElapsed(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	lastReview := now.Add(2 * time.Hour) // review recorded in the future

	card := newTestCard(t)
	card.State = domain.StateReview
	card.Stability = 10
	card.Difficulty = 5
	card.Reps = 2
	card.LastReview = &lastReview

	graded, log, err := engine.Grade(card, domain.RatingGood, now)
	require.NoError(t, err)

	assert.Zero(t, graded.ElapsedDays)
	assert.Zero(t, log.ElapsedDays)
	assert.True(t, graded.Due.After(now))
}

func TestGradeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	card := newTestCard(t)
	before := card.Clone()
	now := time.Now().UTC()

	_, _, err := engine.Grade(card, domain.RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, before, card)
}

func TestGradeRejectsInvalidRating(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	card := newTestCard(t)

	_, _, err := engine.Grade(card, domain.Rating(0), time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, _, err = engine.Grade(card, domain.Rating(5), time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
}

func TestGradeDifficultyStaysBounded(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	// Drive the card through long streaks of extreme ratings; difficulty
	// must stay inside its clamp the whole way.
	sequences := [][]domain.Rating{
		{domain.RatingAgain, domain.RatingAgain, domain.RatingAgain, domain.RatingAgain, domain.RatingAgain, domain.RatingAgain, domain.RatingAgain, domain.RatingAgain},
		{domain.RatingEasy, domain.RatingEasy, domain.RatingEasy, domain.RatingEasy, domain.RatingEasy, domain.RatingEasy, domain.RatingEasy, domain.RatingEasy},
		{domain.RatingHard, domain.RatingAgain, domain.RatingHard, domain.RatingAgain, domain.RatingHard, domain.RatingAgain, domain.RatingHard, domain.RatingAgain},
		{domain.RatingGood, domain.RatingEasy, domain.RatingAgain, domain.RatingGood, domain.RatingHard, domain.RatingEasy, domain.RatingAgain, domain.RatingGood},
	}

	for _, seq := range sequences {
		card := newTestCard(t)
		at := now
		for _, rating := range seq {
			graded, _, err := engine.Grade(card, rating, at)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, graded.Difficulty, 1.0)
			assert.LessOrEqual(t, graded.Difficulty, 10.0)
			assert.Positive(t, graded.Stability)
			assert.True(t, graded.Due.After(at))

			card = graded
			at = graded.Due
		}
	}
}

func TestGradeDisableShortTerm(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.Params{DisableShortTerm: true})
	card := newTestCard(t)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	graded, _, err := engine.Grade(card, domain.RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, domain.StateReview, graded.State)
	assert.GreaterOrEqual(t, graded.Due.Sub(now), 24*time.Hour)
}

func TestPreviewCoversAllRatings(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	card := newTestCard(t)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	previews, err := engine.Preview(card, now)
	require.NoError(t, err)
	require.Len(t, previews, 4)

	for _, r := range []domain.Rating{domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy} {
		require.Contains(t, previews, r)
		assert.True(t, previews[r].Due.After(now))
	}

	// Easy schedules furthest out, Again nearest.
	assert.True(t, previews[domain.RatingEasy].Due.After(previews[domain.RatingAgain].Due))
}

func TestRetrievability(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, srs.DefaultParams())
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	t.Run("unreviewed card is zero", func(t *testing.T) {
		t.Parallel()
		card := newTestCard(t)
		assert.Zero(t, engine.Retrievability(card, now))
	})

	t.Run("decays over elapsed time", func(t *testing.T) {
		t.Parallel()
		card := newTestCard(t)
		card.State = domain.StateReview
		card.Stability = 10
		card.Difficulty = 5
		card.Reps = 1
		lr := now.AddDate(0, 0, -5)
		card.LastReview = &lr

		early := engine.Retrievability(card, now)
		late := engine.Retrievability(card, now.AddDate(0, 0, 20))

		assert.Greater(t, early, late)
		assert.Greater(t, early, 0.0)
		assert.LessOrEqual(t, early, 1.0)
	})
}
