package lesson

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hanziflow/hanziflow-api/internal/content"
	"github.com/hanziflow/hanziflow-api/internal/domain"
	"github.com/hanziflow/hanziflow-api/internal/events"
	"github.com/hanziflow/hanziflow-api/internal/platform/logger"
	"github.com/hanziflow/hanziflow-api/internal/store"
)

// LessonWithProgress pairs a lesson definition with its progress row.
type LessonWithProgress struct {
	Lesson   content.LessonDef     `json:"lesson"`
	Progress domain.LessonProgress `json:"progress"`
}

// StageWithProgress groups lessons with progress under their stage.
type StageWithProgress struct {
	Stage   content.StageDef     `json:"stage"`
	Lessons []LessonWithProgress `json:"lessons"`
}

// Service tracks lesson progress over the static curriculum.
type Service struct {
	db       *sql.DB
	progress store.LessonProgressStore
	library  *content.Library
	logger   *slog.Logger
}

// NewService creates a lesson progress tracker.
func NewService(db *sql.DB, progress store.LessonProgressStore, library *content.Library, log *slog.Logger) *Service {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if progress == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progress cannot be nil")
	}
	if library == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("library cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		db:       db,
		progress: progress,
		library:  library,
		logger:   log.With(slog.String("component", "lesson_service")),
	}
}

// Ensure Service handles item-introduced events
var _ events.Handler = (*Service)(nil)

// List returns the full learning path with progress merged in. Lessons
// without a stored row get defaults: the first lesson of the path is
// available, every other one locked.
func (s *Service) List(ctx context.Context) ([]StageWithProgress, error) {
	rows, err := s.progress.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lesson progress: %w", err)
	}

	byID := make(map[string]*domain.LessonProgress, len(rows))
	for _, row := range rows {
		byID[row.LessonID] = row
	}

	out := make([]StageWithProgress, 0, len(s.library.Stages()))
	for _, stage := range s.library.Stages() {
		sw := StageWithProgress{Stage: stage}
		for _, lesson := range stage.Lessons {
			p := byID[lesson.ID]
			if p == nil {
				p = s.defaultProgress(lesson.ID)
			}
			sw.Lessons = append(sw.Lessons, LessonWithProgress{Lesson: lesson, Progress: *p})
		}
		out = append(out, sw)
	}

	return out, nil
}

// StartLesson marks the lesson in progress. Unknown lesson ids are logged
// and ignored, returning a nil progress.
func (s *Service) StartLesson(ctx context.Context, lessonID string) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, ok := s.library.Lesson(lessonID); !ok {
		log.Warn("start requested for unknown lesson", slog.String("lesson_id", lessonID))
		return nil, nil
	}

	var out *domain.LessonProgress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progress := s.progress.WithTx(tx)

		p, err := s.getOrDefault(ctx, progress, lessonID)
		if err != nil {
			return err
		}

		p.Status = domain.LessonInProgress
		p.UpdatedAt = time.Now().UTC()

		if err := progress.Upsert(ctx, p); err != nil {
			return fmt.Errorf("failed to save lesson progress: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkItemDone records that an item inside the lesson has been studied.
// The done-sets are idempotent: marking the same item twice changes
// nothing. Unknown lesson ids are logged and ignored.
func (s *Service) MarkItemDone(ctx context.Context, lessonID string, itemType domain.ItemType, char string) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, ok := s.library.Lesson(lessonID); !ok {
		log.Warn("item done for unknown lesson",
			slog.String("lesson_id", lessonID),
			slog.String("char", char))
		return nil, nil
	}

	var out *domain.LessonProgress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progress := s.progress.WithTx(tx)

		p, err := s.getOrDefault(ctx, progress, lessonID)
		if err != nil {
			return err
		}

		if !p.MarkDone(itemType, char) {
			// Already recorded; nothing to persist.
			out = p
			return nil
		}
		p.UpdatedAt = time.Now().UTC()

		if err := progress.Upsert(ctx, p); err != nil {
			return fmt.Errorf("failed to save lesson progress: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteLesson stamps the lesson completed and unlocks the next lesson
// in path order if it is still locked. Unknown lesson ids are logged and
// ignored.
func (s *Service) CompleteLesson(ctx context.Context, lessonID string) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, ok := s.library.Lesson(lessonID); !ok {
		log.Warn("complete requested for unknown lesson", slog.String("lesson_id", lessonID))
		return nil, nil
	}

	var out *domain.LessonProgress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progress := s.progress.WithTx(tx)

		p, err := s.getOrDefault(ctx, progress, lessonID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		p.Status = domain.LessonCompleted
		p.CompletedAt = &now
		p.UpdatedAt = now

		if err := progress.Upsert(ctx, p); err != nil {
			return fmt.Errorf("failed to save lesson progress: %w", err)
		}

		next, ok := s.library.NextLesson(lessonID)
		if !ok {
			out = p
			return nil
		}

		np, err := s.getOrDefault(ctx, progress, next.ID)
		if err != nil {
			return err
		}
		if np.Status == domain.LessonLocked {
			np.Status = domain.LessonAvailable
			np.UpdatedAt = now
			if err := progress.Upsert(ctx, np); err != nil {
				return fmt.Errorf("failed to unlock next lesson: %w", err)
			}
			log.Info("unlocked next lesson",
				slog.String("completed", lessonID),
				slog.String("unlocked", next.ID))
		}

		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RestartLesson resets the lesson's done-sets and completion stamp and
// puts it back in progress. Unlocks already granted stay granted. Unknown
// lesson ids are logged and ignored.
func (s *Service) RestartLesson(ctx context.Context, lessonID string) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, ok := s.library.Lesson(lessonID); !ok {
		log.Warn("restart requested for unknown lesson", slog.String("lesson_id", lessonID))
		return nil, nil
	}

	var out *domain.LessonProgress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progress := s.progress.WithTx(tx)

		p, err := s.getOrDefault(ctx, progress, lessonID)
		if err != nil {
			return err
		}

		p.Status = domain.LessonInProgress
		p.RadicalsDone = []string{}
		p.CharactersDone = []string{}
		p.CompletedAt = nil
		p.UpdatedAt = time.Now().UTC()

		if err := progress.Upsert(ctx, p); err != nil {
			return fmt.Errorf("failed to save lesson progress: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HandleItemIntroduced implements events.Handler. When an item enters the
// learner's rotation and the lesson currently in progress contains it,
// the item is marked done in that lesson.
func (s *Service) HandleItemIntroduced(ctx context.Context, event *events.ItemIntroducedEvent) error {
	char, ok := s.library.ItemChar(event.ItemType, event.ItemID)
	if !ok {
		s.logger.Warn("introduced item not in curriculum",
			slog.String("item_type", string(event.ItemType)),
			slog.Int64("item_id", event.ItemID))
		return nil
	}

	rows, err := s.progress.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list lesson progress: %w", err)
	}

	for _, row := range rows {
		if row.Status != domain.LessonInProgress {
			continue
		}
		def, ok := s.library.Lesson(row.LessonID)
		if !ok || !lessonContains(def, event.ItemType, char) {
			continue
		}
		_, err := s.MarkItemDone(ctx, row.LessonID, event.ItemType, char)
		return err
	}

	return nil
}

// getOrDefault loads the progress row, falling back to the default for
// lessons never touched: the first lesson of the path starts available,
// every other one locked.
func (s *Service) getOrDefault(ctx context.Context, progress store.LessonProgressStore, lessonID string) (*domain.LessonProgress, error) {
	p, err := progress.Get(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrLessonProgressNotFound) {
			return s.defaultProgress(lessonID), nil
		}
		return nil, fmt.Errorf("failed to load lesson progress: %w", err)
	}
	return p, nil
}

func (s *Service) defaultProgress(lessonID string) *domain.LessonProgress {
	status := domain.LessonLocked
	if first, ok := s.library.FirstLesson(); ok && first.ID == lessonID {
		status = domain.LessonAvailable
	}
	return &domain.LessonProgress{
		LessonID:       lessonID,
		Status:         status,
		RadicalsDone:   []string{},
		CharactersDone: []string{},
		UpdatedAt:      time.Now().UTC(),
	}
}

func lessonContains(def *content.LessonDef, itemType domain.ItemType, char string) bool {
	set := def.Characters
	if itemType == domain.ItemTypeRadical {
		set = def.Radicals
	}
	for _, c := range set {
		if c == char {
			return true
		}
	}
	return false
}
