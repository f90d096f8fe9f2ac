package api

import (
	"log/slog"
	"net/http"

	"github.com/hanziflow/hanziflow-api/internal/api/shared"
	"github.com/hanziflow/hanziflow-api/internal/assistant"
)

// AssistantHandler serves the tutor chat endpoint.
type AssistantHandler struct {
	assistant assistant.Service
	logger    *slog.Logger
}

// NewAssistantHandler creates an assistant handler.
func NewAssistantHandler(svc assistant.Service, log *slog.Logger) *AssistantHandler {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("svc cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &AssistantHandler{
		assistant: svc,
		logger:    log.With(slog.String("component", "assistant_handler")),
	}
}

// Chat handles POST /api/assistant/chat. Responds 503 when the assistant
// is not configured.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.assistant.Available() {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Assistant is not configured")
		return
	}

	var req ChatRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.assistant.Chat(r.Context(), req.Messages, req.Context)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reply)
}
