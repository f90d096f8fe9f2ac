package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/events"
)

type recordingHandler struct {
	received []*events.ItemIntroducedEvent
	err      error
}

func (h *recordingHandler) HandleItemIntroduced(_ context.Context, event *events.ItemIntroducedEvent) error {
	h.received = append(h.received, event)
	return h.err
}

func newEvent() *events.ItemIntroducedEvent {
	return events.NewItemIntroducedEvent(
		domain.ItemTypeRadical, 3, uuid.New(), time.Now().UTC())
}

func TestEmitDispatchesToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(nil)
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := newEvent()
	require.NoError(t, emitter.Emit(context.Background(), event))

	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	assert.Equal(t, event.ID, first.received[0].ID)
	assert.Equal(t, event.ID, second.received[0].ID)
}

func TestEmitWithNoHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(nil)
	assert.NoError(t, emitter.Emit(context.Background(), newEvent()))
}

func TestEmitReturnsFirstErrorButReachesAll(t *testing.T) {
	t.Parallel()

	errFirst := errors.New("first handler failed")
	errSecond := errors.New("second handler failed")

	failing := &recordingHandler{err: errFirst}
	alsoFailing := &recordingHandler{err: errSecond}
	healthy := &recordingHandler{}

	emitter := events.NewInMemoryEmitter(nil)
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(alsoFailing)
	emitter.RegisterHandler(healthy)

	err := emitter.Emit(context.Background(), newEvent())
	assert.ErrorIs(t, err, errFirst)

	// A failing handler never blocks delivery to the rest.
	assert.Len(t, healthy.received, 1)
	assert.Len(t, alsoFailing.received, 1)
}

func TestNewItemIntroducedEvent(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	at := time.Now().UTC()

	event := events.NewItemIntroducedEvent(domain.ItemTypeCharacter, 105, cardID, at)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, domain.ItemTypeCharacter, event.ItemType)
	assert.Equal(t, int64(105), event.ItemID)
	assert.Equal(t, cardID, event.CardID)
	assert.Equal(t, at, event.OccurredAt)
}
