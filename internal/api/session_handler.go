package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/api/shared"
	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/service/session"
)

// SessionHandler serves the study session lifecycle endpoints.
type SessionHandler struct {
	sessions *session.Service
	logger   *slog.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions *session.Service, log *slog.Logger) *SessionHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessions cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "session_handler")),
	}
}

// sessionResponse is the standard session payload: the session row, the
// plan computed at response time, and the seconds left in the budget.
type sessionResponse struct {
	Session          *domain.StudySession `json:"session"`
	Plan             *session.Plan        `json:"plan,omitempty"`
	RemainingSeconds int                  `json:"remaining_seconds"`
}

// Start handles POST /api/sessions. It creates an open session and
// returns the plan for it.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	plan, err := h.sessions.Plan(r.Context(), now)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	s, err := h.sessions.Start(r.Context(), now)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionResponse{
		Session:          s,
		Plan:             plan,
		RemainingSeconds: int(h.sessions.Remaining(s, now).Seconds()),
	})
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionResponse{
		Session:          s,
		RemainingSeconds: int(h.sessions.Remaining(s, time.Now().UTC()).Seconds()),
	})
}

// AdvancePhase handles POST /api/sessions/{id}/advance.
func (h *SessionHandler) AdvancePhase(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.sessions.AdvancePhase(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionResponse{
		Session:          s,
		RemainingSeconds: int(h.sessions.Remaining(s, time.Now().UTC()).Seconds()),
	})
}

// RecordReview handles POST /api/sessions/{id}/reviews. It bumps the
// session counters for one graded card.
func (h *SessionHandler) RecordReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req RecordReviewRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sessions.RecordReview(r.Context(), id, req.IsNew); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// End handles POST /api/sessions/{id}/end. Ending twice is a no-op.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.sessions.End(r.Context(), id, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionResponse{
		Session:          s,
		RemainingSeconds: 0,
	})
}

func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
