package assistant

import (
	"context"
	"errors"
)

// Role identifies who wrote a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the tutor conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatContext tells the tutor what the learner is looking at so replies
// can reference the item on screen.
type ChatContext struct {
	Screen   string `json:"screen,omitempty"`
	ItemChar string `json:"item_char,omitempty"`
	ItemType string `json:"item_type,omitempty"`
}

// ErrUnavailable indicates the assistant is not configured.
var ErrUnavailable = errors.New("assistant is not configured")

// Service answers tutor chat requests.
// Version: 1.0
type Service interface {
	// Chat sends the conversation history and screen context to the tutor
	// and returns its reply. Returns ErrUnavailable when the assistant is
	// not configured.
	Chat(ctx context.Context, messages []Message, chatCtx ChatContext) (*Message, error)

	// Available reports whether the assistant can serve requests.
	Available() bool
}
