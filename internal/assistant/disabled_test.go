package assistant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanziflow/hanziflow-api/internal/assistant"
)

func TestDisabledService(t *testing.T) {
	t.Parallel()

	svc := assistant.NewDisabledService()
	assert.False(t, svc.Available())

	reply, err := svc.Chat(context.Background(),
		[]assistant.Message{{Role: assistant.RoleUser, Content: "你好"}},
		assistant.ChatContext{})

	assert.Nil(t, reply)
	assert.ErrorIs(t, err, assistant.ErrUnavailable)
}
