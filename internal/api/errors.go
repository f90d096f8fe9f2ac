package api

import (
	"errors"
	"net/http"

	"github.com/hanziflow/hanziflow-api/internal/assistant"
	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/service/review"
	"github.com/hanziflow/hanziflow-api/internal/service/session"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. It
// keeps internal error types and messages from leaking to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrLessonProgressNotFound),
		errors.Is(err, review.ErrUnknownItem):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrCardExists),
		errors.Is(err, session.ErrSessionEnded):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidRating):
		return http.StatusBadRequest

	// External collaborator not configured
	case errors.Is(err, assistant.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for the
// error. Internal detail stays in the logs.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, review.ErrCardNotFound), errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrLessonProgressNotFound):
		return "Lesson progress not found"

	case errors.Is(err, review.ErrUnknownItem):
		return "Unknown item"

	case errors.Is(err, store.ErrCardExists):
		return "Card already exists"

	case errors.Is(err, session.ErrSessionEnded):
		return "Session already ended"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, assistant.ErrUnavailable):
		return "Assistant is not configured"

	default:
		return "An unexpected error occurred"
	}
}
