package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/assistant"
)

// validate is the shared request validator.
var validate = validator.New()

// DecodeAndValidate decodes the request body into v and runs struct
// validation. Returns a client-safe error message on failure.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("request validation failed")
	}
	return nil
}

// ReviewRequest is the body of POST /api/cards/{id}/review.
type ReviewRequest struct {
	Rating    string     `json:"rating"     validate:"required,oneof=again hard good easy"`
	SessionID *uuid.UUID `json:"session_id" validate:"omitempty"`
}

// RecordReviewRequest is the body of POST /api/sessions/{id}/reviews.
type RecordReviewRequest struct {
	IsNew bool `json:"is_new"`
}

// MarkItemDoneRequest is the body of POST /api/lessons/{id}/items/{char}/done.
type MarkItemDoneRequest struct {
	ItemType string `json:"item_type" validate:"required,oneof=radical character"`
}

// ChatRequest is the body of POST /api/assistant/chat.
type ChatRequest struct {
	Messages []assistant.Message   `json:"messages" validate:"required,min=1"`
	Context  assistant.ChatContext `json:"context"`
}
