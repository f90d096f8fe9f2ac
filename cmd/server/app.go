package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanziflow/hanziflow-api/internal/api"
	"github.com/hanziflow/hanziflow-api/internal/assistant"
	"github.com/hanziflow/hanziflow-api/internal/config"
	"github.com/hanziflow/hanziflow-api/internal/content"
	"github.com/hanziflow/hanziflow-api/internal/domain/srs"
	"github.com/hanziflow/hanziflow-api/internal/events"
	"github.com/hanziflow/hanziflow-api/internal/platform/logger"
	"github.com/hanziflow/hanziflow-api/internal/platform/postgres"
	"github.com/hanziflow/hanziflow-api/internal/service/lesson"
	"github.com/hanziflow/hanziflow-api/internal/service/review"
	"github.com/hanziflow/hanziflow-api/internal/service/session"
)

const shutdownTimeout = 10 * time.Second

// application holds the wired components of the running server.
type application struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *sql.DB
	server  *http.Server
	sweeper *session.Sweeper
}

// newApplication loads configuration and wires every component together:
// stores, scheduling engine, services, event plumbing, HTTP handlers.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	library, err := content.Load()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load curriculum: %w", err)
	}

	engine, err := srs.NewService(srs.Params{
		DesiredRetention: cfg.Scheduler.DesiredRetention,
		MaximumInterval:  cfg.Scheduler.MaximumIntervalDays,
		DisableShortTerm: !cfg.Scheduler.EnableShortTerm,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to build scheduling engine: %w", err)
	}

	// Stores
	cardStore := postgres.NewPostgresCardStore(db, log)
	logStore := postgres.NewPostgresReviewLogStore(db, log)
	sessionStore := postgres.NewPostgresSessionStore(db, log)
	progressStore := postgres.NewPostgresLessonProgressStore(db, log)

	// Services
	sessionService := session.NewService(db, sessionStore, cardStore, session.Config{
		Length:   cfg.Session.Length(),
		MaxCards: cfg.Session.CardsPerSession,
	}, log)

	emitter := events.NewInMemoryEmitter(log)
	lessonService := lesson.NewService(db, progressStore, library, log)
	emitter.RegisterHandler(lessonService)

	reviewService := review.NewService(db, cardStore, logStore, engine, emitter, sessionService, library, log)

	var tutor assistant.Service
	if cfg.Assistant.GeminiAPIKey != "" {
		tutor, err = assistant.NewGeminiService(context.Background(),
			cfg.Assistant.GeminiAPIKey, cfg.Assistant.Model, log)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to build assistant: %w", err)
		}
	} else {
		log.Info("no Gemini API key configured, assistant disabled")
		tutor = assistant.NewDisabledService()
	}

	router := newRouter(
		api.NewReviewHandler(reviewService, log),
		api.NewSessionHandler(sessionService, log),
		api.NewLessonHandler(lessonService, log),
		api.NewAssistantHandler(tutor, log),
		db,
	)

	return &application{
		cfg:    cfg,
		logger: log,
		db:     db,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		sweeper: session.NewSweeper(sessionService, cfg.Session.SweepInterval, log),
	}, nil
}

// Run starts the sweeper and the HTTP server, then blocks until a
// shutdown signal arrives and the server drains.
func (a *application) Run() error {
	if err := a.sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start session sweeper: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		a.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	a.sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}

// Close releases held resources. Safe after a failed or completed Run.
func (a *application) Close() {
	a.sweeper.Stop()
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", slog.String("error", err.Error()))
	}
}
