package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/domain/srs"
	"github.com/hanziflow/hanziflow-api/internal/events"
	"github.com/hanziflow/hanziflow-api/internal/platform/logger"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

// knownStabilityDays is the stability at which a review-state card counts
// as known: roughly three weeks of retention.
const knownStabilityDays = 21.0

// SessionRecorder receives per-review counter updates for an open study
// session. Counter updates run after the grading transaction commits;
// a failure there never unwinds a persisted grading.
type SessionRecorder interface {
	RecordReview(ctx context.Context, sessionID uuid.UUID, isNew bool) error
}

// ItemCatalog resolves item ids against the curriculum. Satisfied by
// content.Library.
type ItemCatalog interface {
	ItemChar(itemType domain.ItemType, id int64) (string, bool)
}

// Stats aggregates card counts by learning status.
type Stats struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Review   int `json:"review"`
	Known    int `json:"known"`
}

// Result is the outcome of one submitted review.
type Result struct {
	Card *domain.Card      `json:"card"`
	Log  *domain.ReviewLog `json:"log"`

	// Introduced is true when this grading moved the card out of the new
	// state, i.e. the item entered the learner's rotation.
	Introduced bool `json:"introduced"`
}

// Service resolves study queues and orchestrates grading.
type Service struct {
	db       *sql.DB
	cards    store.CardStore
	logs     store.ReviewLogStore
	engine   *srs.Service
	emitter  events.Emitter
	recorder SessionRecorder
	catalog  ItemCatalog
	logger   *slog.Logger
}

// NewService creates a review service. The recorder may be nil when no
// session bookkeeping is wanted and the catalog may be nil to skip
// curriculum checks on item introduction; everything else is required.
func NewService(
	db *sql.DB,
	cards store.CardStore,
	logs store.ReviewLogStore,
	engine *srs.Service,
	emitter events.Emitter,
	recorder SessionRecorder,
	catalog ItemCatalog,
	log *slog.Logger,
) *Service {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards cannot be nil")
	}
	if logs == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logs cannot be nil")
	}
	if engine == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("engine cannot be nil")
	}
	if emitter == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("emitter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		db:       db,
		cards:    cards,
		logs:     logs,
		engine:   engine,
		emitter:  emitter,
		recorder: recorder,
		catalog:  catalog,
		logger:   log.With(slog.String("component", "review_service")),
	}
}

// DueCards returns cards due at now, oldest overdue first, truncated to
// limit. New cards are never part of the due set; a limit <= 0 yields an
// empty slice.
func (s *Service) DueCards(ctx context.Context, now time.Time, limit int) ([]*domain.Card, error) {
	cards, err := s.cards.QueryDue(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", err)
	}
	return cards, nil
}

// NewCards returns not-yet-introduced cards in stable introduction order,
// truncated to limit. A limit <= 0 yields an empty slice.
func (s *Service) NewCards(ctx context.Context, limit int) ([]*domain.Card, error) {
	cards, err := s.cards.QueryNew(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query new cards: %w", err)
	}
	return cards, nil
}

// Stats aggregates card counts by learning status. A review-state card
// counts as known once its stability reaches the maturity threshold.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	byState, err := s.cards.CountByState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards by state: %w", err)
	}
	known, err := s.cards.CountKnown(ctx, knownStabilityDays)
	if err != nil {
		return nil, fmt.Errorf("failed to count known cards: %w", err)
	}

	return &Stats{
		New:      byState[domain.StateNew],
		Learning: byState[domain.StateLearning] + byState[domain.StateRelearning],
		Review:   byState[domain.StateReview] - known,
		Known:    known,
	}, nil
}

// SubmitReview grades the card with the given rating at now. The card
// update and the review log entry share one transaction; the session
// counter update and the item-introduced event follow after commit and
// never unwind the grading.
//
// sessionID may be nil when the review happens outside a study session.
func (s *Service) SubmitReview(
	ctx context.Context,
	cardID uuid.UUID,
	rating domain.Rating,
	now time.Time,
	sessionID *uuid.UUID,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *Result
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)
		logs := s.logs.WithTx(tx)

		card, err := cards.GetByID(ctx, cardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to load card: %w", err)
		}

		wasNew := card.State == domain.StateNew

		graded, entry, err := s.engine.Grade(card, rating, now)
		if err != nil {
			return fmt.Errorf("failed to grade card: %w", err)
		}

		if err := cards.Update(ctx, graded); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		if err := logs.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append review log: %w", err)
		}

		result = &Result{
			Card:       graded,
			Log:        entry,
			Introduced: wasNew,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("review graded",
		slog.String("card_id", cardID.String()),
		slog.String("rating", rating.String()),
		slog.String("state", result.Card.State.String()))

	if sessionID != nil && s.recorder != nil {
		if err := s.recorder.RecordReview(ctx, *sessionID, result.Introduced); err != nil {
			// The grading is already committed. Counter drift is
			// diagnostic-only, so log and move on.
			log.Warn("failed to record review in session",
				slog.String("session_id", sessionID.String()),
				slog.String("error", err.Error()))
		}
	}

	if result.Introduced {
		event := events.NewItemIntroducedEvent(result.Card.ItemType, result.Card.ItemID, result.Card.ID, now)
		if err := s.emitter.Emit(ctx, event); err != nil {
			log.Warn("failed to emit item introduced event",
				slog.String("card_id", cardID.String()),
				slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// Preview returns the grading outcome for each possible rating without
// persisting anything.
func (s *Service) Preview(ctx context.Context, cardID uuid.UUID, now time.Time) (map[domain.Rating]*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	return s.engine.Preview(card, now)
}

// IntroduceItem idempotently ensures the recognition/recall card pair
// exists for an item. Missing cards are created atomically; cards already
// present are left untouched. Returns the item's full card set.
func (s *Service) IntroduceItem(ctx context.Context, itemType domain.ItemType, itemID int64) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.catalog != nil {
		if _, ok := s.catalog.ItemChar(itemType, itemID); !ok {
			return nil, fmt.Errorf("%w: %s %d", ErrUnknownItem, itemType, itemID)
		}
	}

	var out []*domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		existing, err := cards.GetByItem(ctx, itemType, itemID)
		if err != nil {
			return fmt.Errorf("failed to load item cards: %w", err)
		}

		have := make(map[domain.CardType]*domain.Card, len(existing))
		for _, c := range existing {
			have[c.CardType] = c
		}

		var created []*domain.Card
		for _, ct := range domain.CardTypes() {
			if _, ok := have[ct]; ok {
				continue
			}
			card, err := domain.NewCard(itemType, itemID, ct)
			if err != nil {
				return fmt.Errorf("failed to build card: %w", err)
			}
			created = append(created, card)
		}

		if len(created) > 0 {
			if err := cards.CreateMultiple(ctx, created); err != nil {
				return fmt.Errorf("failed to create cards: %w", err)
			}
		}

		out = make([]*domain.Card, 0, len(domain.CardTypes()))
		for _, ct := range domain.CardTypes() {
			if c, ok := have[ct]; ok {
				out = append(out, c)
				continue
			}
			for _, c := range created {
				if c.CardType == ct {
					out = append(out, c)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("item introduced",
		slog.String("item_type", string(itemType)),
		slog.Int64("item_id", itemID),
		slog.Int("cards", len(out)))

	return out, nil
}
