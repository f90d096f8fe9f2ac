package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanziflow/hanziflow-api/internal/api/shared"
	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/service/lesson"
)

// LessonHandler serves the learning path and lesson progress endpoints.
type LessonHandler struct {
	lessons *lesson.Service
	logger  *slog.Logger
}

// NewLessonHandler creates a lesson handler.
func NewLessonHandler(lessons *lesson.Service, log *slog.Logger) *LessonHandler {
	if lessons == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("lessons cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &LessonHandler{
		lessons: lessons,
		logger:  log.With(slog.String("component", "lesson_handler")),
	}
}

// List handles GET /api/lessons.
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	stages, err := h.lessons.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"stages": stages,
	})
}

// Start handles POST /api/lessons/{id}/start.
func (h *LessonHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.respondProgress(w, r, func(id string) (*domain.LessonProgress, error) {
		return h.lessons.StartLesson(r.Context(), id)
	})
}

// Complete handles POST /api/lessons/{id}/complete.
func (h *LessonHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.respondProgress(w, r, func(id string) (*domain.LessonProgress, error) {
		return h.lessons.CompleteLesson(r.Context(), id)
	})
}

// Restart handles POST /api/lessons/{id}/restart.
func (h *LessonHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.respondProgress(w, r, func(id string) (*domain.LessonProgress, error) {
		return h.lessons.RestartLesson(r.Context(), id)
	})
}

// MarkItemDone handles POST /api/lessons/{id}/items/{char}/done.
func (h *LessonHandler) MarkItemDone(w http.ResponseWriter, r *http.Request) {
	var req MarkItemDoneRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	itemType, err := domain.ParseItemType(req.ItemType)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item type")
		return
	}
	char := chi.URLParam(r, "char")

	h.respondProgress(w, r, func(id string) (*domain.LessonProgress, error) {
		return h.lessons.MarkItemDone(r.Context(), id, itemType, char)
	})
}

// respondProgress runs a lesson operation and writes the resulting
// progress. A nil progress means the lesson id is unknown; the service
// treats that as a no-op and the API reports not found.
func (h *LessonHandler) respondProgress(
	w http.ResponseWriter,
	r *http.Request,
	op func(id string) (*domain.LessonProgress, error),
) {
	lessonID := chi.URLParam(r, "id")

	progress, err := op(lessonID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if progress == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Lesson not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
