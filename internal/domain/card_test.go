package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	card, err := domain.NewCard(domain.ItemTypeRadical, 7, domain.CardTypeRecognition)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, card.ID)
	assert.Equal(t, domain.StateNew, card.State)
	assert.Zero(t, card.Stability)
	assert.Zero(t, card.Reps)
	assert.Zero(t, card.Lapses)
	assert.Nil(t, card.LastReview)
	assert.WithinDuration(t, time.Now().UTC(), card.Due, time.Minute)
}

func TestNewCardRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := domain.NewCard(domain.ItemType("word"), 1, domain.CardTypeRecall)
	assert.ErrorIs(t, err, domain.ErrCardItemTypeInvalid)

	_, err = domain.NewCard(domain.ItemTypeCharacter, 0, domain.CardTypeRecall)
	assert.ErrorIs(t, err, domain.ErrCardItemIDInvalid)

	_, err = domain.NewCard(domain.ItemTypeCharacter, 1, domain.CardType("cloze"))
	assert.ErrorIs(t, err, domain.ErrCardTypeInvalid)
}

func TestCardValidate(t *testing.T) {
	t.Parallel()

	valid := func() *domain.Card {
		card, err := domain.NewCard(domain.ItemTypeCharacter, 42, domain.CardTypeRecall)
		require.NoError(t, err)
		return card
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Card)
		wantErr error
	}{
		{
			name:    "valid card passes",
			mutate:  func(*domain.Card) {},
			wantErr: nil,
		},
		{
			name:    "empty id",
			mutate:  func(c *domain.Card) { c.ID = uuid.Nil },
			wantErr: domain.ErrCardIDEmpty,
		},
		{
			name:    "negative stability",
			mutate:  func(c *domain.Card) { c.State = domain.StateReview; c.Stability = -1 },
			wantErr: domain.ErrCardStabilityNegative,
		},
		{
			name:    "new card with reps",
			mutate:  func(c *domain.Card) { c.Reps = 3 },
			wantErr: domain.ErrCardNewNotPristine,
		},
		{
			name:    "new card with stability",
			mutate:  func(c *domain.Card) { c.Stability = 2.5 },
			wantErr: domain.ErrCardNewNotPristine,
		},
		{
			name:    "invalid state",
			mutate:  func(c *domain.Card) { c.State = domain.State(9) },
			wantErr: domain.ErrCardStateInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			card := valid()
			tc.mutate(card)

			err := card.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestCardClone(t *testing.T) {
	t.Parallel()

	card, err := domain.NewCard(domain.ItemTypeRadical, 1, domain.CardTypeRecognition)
	require.NoError(t, err)
	now := time.Now().UTC()
	card.LastReview = &now

	clone := card.Clone()
	require.Equal(t, card, clone)

	// Mutating the clone's pointer field must not touch the original.
	*clone.LastReview = now.Add(time.Hour)
	assert.Equal(t, now, *card.LastReview)
}
