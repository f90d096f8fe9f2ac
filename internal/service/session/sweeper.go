package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// sweepTimeout bounds one sweep pass.
const sweepTimeout = 30 * time.Second

// Sweeper periodically closes open sessions whose time budget has run
// out. It is the server-side counterpart of the session countdown timer:
// a learner who walks away still gets their session closed at the
// deadline.
type Sweeper struct {
	scheduler *gocron.Scheduler
	svc       *Service
	interval  time.Duration
	logger    *slog.Logger
	stopOnce  sync.Once
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(svc *Service, interval time.Duration, log *slog.Logger) *Sweeper {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("svc cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		svc:       svc,
		interval:  interval,
		logger:    log.With(slog.String("component", "session_sweeper")),
	}
}

// Start schedules the sweep job and runs the scheduler in the background.
func (s *Sweeper) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.sweep); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info("session sweeper started", slog.Duration("interval", s.interval))
	return nil
}

// Stop halts the scheduler. Safe to call more than once; only the first
// call has an effect.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		s.scheduler.Stop()
		s.logger.Info("session sweeper stopped")
	})
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.svc.ExpireOpenSessions(ctx, time.Now().UTC()); err != nil {
		s.logger.Error("session sweep failed", slog.String("error", err.Error()))
	}
}
