package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/platform/logger"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

// Config carries the session budgets.
type Config struct {
	// Length is the session time budget.
	Length time.Duration

	// MaxCards is the total card budget per session.
	MaxCards int
}

// Plan is the split of a session's card budget. Due reviews always fill
// the budget first; new cards take whatever remains.
type Plan struct {
	ReviewCount int `json:"review_count"`
	NewCount    int `json:"new_count"`
	TotalCards  int `json:"total_cards"`
}

// Service manages study session lifecycle and planning.
type Service struct {
	db       *sql.DB
	sessions store.SessionStore
	cards    store.CardStore
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a session service.
func NewService(db *sql.DB, sessions store.SessionStore, cards store.CardStore, cfg Config, log *slog.Logger) *Service {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessions cannot be nil")
	}
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		db:       db,
		sessions: sessions,
		cards:    cards,
		cfg:      cfg,
		logger:   log.With(slog.String("component", "session_service")),
	}
}

// Plan computes the card split for a session starting at now. Reviews are
// never displaced by new material: the new-card count only draws on budget
// left after every due review is seated.
func (s *Service) Plan(ctx context.Context, now time.Time) (*Plan, error) {
	dueCount, err := s.cards.CountDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count due cards: %w", err)
	}

	byState, err := s.cards.CountByState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards by state: %w", err)
	}
	newAvailable := byState[domain.StateNew]

	reviewCount := min(dueCount, s.cfg.MaxCards)
	newBudget := max(0, s.cfg.MaxCards-reviewCount)
	newCount := min(newAvailable, newBudget)

	return &Plan{
		ReviewCount: reviewCount,
		NewCount:    newCount,
		TotalCards:  reviewCount + newCount,
	}, nil
}

// Start creates an open session beginning at now, in the review phase.
func (s *Service) Start(ctx context.Context, now time.Time) (*domain.StudySession, error) {
	session, err := domain.NewStudySession(now)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("session started",
		slog.String("session_id", session.ID.String()))

	return session, nil
}

// Get retrieves a session by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// RecordReview increments the session's counters for one graded card.
// isNew marks a card that left the new state on this grading. Counters
// are a running tally, never reconciled against the review log. Returns
// ErrSessionEnded when the session is already closed.
func (s *Service) RecordReview(ctx context.Context, sessionID uuid.UUID, isNew bool) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessions.WithTx(tx)

		session, err := sessions.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to load session: %w", err)
		}
		if session.Ended() {
			return ErrSessionEnded
		}

		session.CardsReviewed++
		if isNew {
			session.NewItemsLearned++
		}

		if err := sessions.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return nil
	})
}

// AdvancePhase moves the session to the next phase of the flow. Phases
// are advisory: advancing never gates or alters scheduling. Summary is
// terminal.
func (s *Service) AdvancePhase(ctx context.Context, sessionID uuid.UUID) (*domain.StudySession, error) {
	var out *domain.StudySession
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessions.WithTx(tx)

		session, err := sessions.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to load session: %w", err)
		}
		if session.Ended() {
			return ErrSessionEnded
		}

		session.Phase = session.Phase.Next()

		if err := sessions.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		out = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// End closes the session at now and forces the summary phase. Ending an
// already-closed session is a no-op returning the stored session.
func (s *Service) End(ctx context.Context, sessionID uuid.UUID, now time.Time) (*domain.StudySession, error) {
	var out *domain.StudySession
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessions.WithTx(tx)

		session, err := sessions.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to load session: %w", err)
		}
		if session.Ended() {
			out = session
			return nil
		}

		session.EndTime = &now
		session.Phase = domain.PhaseSummary

		if err := sessions.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		out = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Remaining returns the time left in the session budget, floored at zero.
func (s *Service) Remaining(session *domain.StudySession, now time.Time) time.Duration {
	return session.Remaining(s.cfg.Length, now)
}

// Length returns the configured session time budget.
func (s *Service) Length() time.Duration {
	return s.cfg.Length
}

// ExpireOpenSessions closes every open session whose time budget ran out
// before now. Expired sessions are stamped with their deadline, not now,
// so the recorded length never exceeds the budget. Returns the number of
// sessions closed.
func (s *Service) ExpireOpenSessions(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.cfg.Length)

	open, err := s.sessions.ListOpenBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list open sessions: %w", err)
	}

	closed := 0
	for _, session := range open {
		deadline := session.Deadline(s.cfg.Length)
		session.EndTime = &deadline
		session.Phase = domain.PhaseSummary

		if err := s.sessions.Update(ctx, session); err != nil {
			// Keep sweeping the rest; the next pass retries this one.
			s.logger.Warn("failed to expire session",
				slog.String("session_id", session.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		closed++
	}

	if closed > 0 {
		s.logger.Info("expired overdue sessions", slog.Int("count", closed))
	}

	return closed, nil
}
