package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/api/shared"
	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/service/review"
)

// Default queue sizes when the query string leaves them unset.
const (
	defaultDueLimit = 50
	defaultNewLimit = 20
)

// ReviewHandler serves the review queue, grading, item introduction and
// stats endpoints.
type ReviewHandler struct {
	reviews *review.Service
	logger  *slog.Logger
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(reviews *review.Service, log *slog.Logger) *ReviewHandler {
	if reviews == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviews cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  log.With(slog.String("component", "review_handler")),
	}
}

// Queue handles GET /api/reviews/queue. It returns the due set followed
// by the new set, each truncated to its limit.
func (h *ReviewHandler) Queue(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	dueLimit := queryInt(r, "due_limit", defaultDueLimit)
	newLimit := queryInt(r, "new_limit", defaultNewLimit)

	due, err := h.reviews.DueCards(r.Context(), now, dueLimit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	fresh, err := h.reviews.NewCards(r.Context(), newLimit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"due": due,
		"new": fresh,
	})
}

// SubmitReview handles POST /api/cards/{id}/review.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req ReviewRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var rating domain.Rating
	if err := rating.UnmarshalText([]byte(req.Rating)); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid rating")
		return
	}

	result, err := h.reviews.SubmitReview(r.Context(), cardID, rating, time.Now().UTC(), req.SessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// IntroduceItem handles POST /api/items/{type}/{id}/introduce. It
// idempotently ensures the item's card pair exists.
func (h *ReviewHandler) IntroduceItem(w http.ResponseWriter, r *http.Request) {
	itemType, err := domain.ParseItemType(chi.URLParam(r, "type"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item type")
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || itemID <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}

	cards, err := h.reviews.IntroduceItem(r.Context(), itemType, itemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"cards": cards,
	})
}

// Stats handles GET /api/stats.
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reviews.Stats(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
