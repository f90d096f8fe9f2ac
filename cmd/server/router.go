package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/hanziflow/hanziflow-api/internal/api"
	apimiddleware "github.com/hanziflow/hanziflow-api/internal/api/middleware"
	"github.com/hanziflow/hanziflow-api/internal/api/shared"
)

const healthCheckTimeout = 2 * time.Second

// newRouter builds the chi router with the standard middleware chain and
// mounts every API handler.
func newRouter(
	reviews *api.ReviewHandler,
	sessions *api.SessionHandler,
	lessons *api.LessonHandler,
	tutor *api.AssistantHandler,
	db *sql.DB,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)

	r.Get("/health", healthHandler(db))

	r.Route("/api", func(r chi.Router) {
		r.Get("/reviews/queue", reviews.Queue)
		r.Post("/cards/{id}/review", reviews.SubmitReview)
		r.Post("/items/{type}/{id}/introduce", reviews.IntroduceItem)
		r.Get("/stats", reviews.Stats)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessions.Start)
			r.Get("/{id}", sessions.Get)
			r.Post("/{id}/advance", sessions.AdvancePhase)
			r.Post("/{id}/reviews", sessions.RecordReview)
			r.Post("/{id}/end", sessions.End)
		})

		r.Route("/lessons", func(r chi.Router) {
			r.Get("/", lessons.List)
			r.Post("/{id}/start", lessons.Start)
			r.Post("/{id}/complete", lessons.Complete)
			r.Post("/{id}/restart", lessons.Restart)
			r.Post("/{id}/items/{char}/done", lessons.MarkItemDone)
		})

		r.Post("/assistant/chat", tutor.Chat)
	})

	return r
}

// healthHandler reports liveness, including a database ping.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
