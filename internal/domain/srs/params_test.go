package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanziflow/hanziflow-api/internal/domain/srs"
)

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	p := srs.DefaultParams()
	assert.Equal(t, srs.DefaultWeights, p.Weights)
	assert.Equal(t, 0.92, p.DesiredRetention)
	assert.Equal(t, 365, p.MaximumInterval)
	assert.Equal(t, []time.Duration{time.Minute, 10 * time.Minute}, p.LearningSteps)
	assert.Equal(t, []time.Duration{10 * time.Minute}, p.RelearningSteps)
}

func TestNewServiceZeroValueParams(t *testing.T) {
	t.Parallel()

	// Zero-value params fall back to defaults rather than failing.
	engine, err := srs.NewService(srs.Params{})
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestNewServiceRejectsBadParams(t *testing.T) {
	t.Parallel()

	t.Run("out of range weight", func(t *testing.T) {
		t.Parallel()
		w := srs.DefaultWeights
		w[0] = 500.0
		_, err := srs.NewService(srs.Params{Weights: w})
		assert.ErrorIs(t, err, srs.ErrInvalidWeights)
	})

	t.Run("retention above one", func(t *testing.T) {
		t.Parallel()
		_, err := srs.NewService(srs.Params{DesiredRetention: 1.5})
		assert.ErrorIs(t, err, srs.ErrInvalidParams)
	})

	t.Run("negative maximum interval", func(t *testing.T) {
		t.Parallel()
		_, err := srs.NewService(srs.Params{MaximumInterval: -7})
		assert.ErrorIs(t, err, srs.ErrInvalidParams)
	})
}

func TestValidateWeights(t *testing.T) {
	t.Parallel()

	assert.NoError(t, srs.ValidateWeights(srs.DefaultWeights))

	w := srs.DefaultWeights
	w[20] = 0.05 // below the decay exponent floor
	assert.ErrorIs(t, srs.ValidateWeights(w), srs.ErrInvalidWeights)
}
