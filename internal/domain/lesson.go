package domain

import (
	"fmt"
	"time"
)

// LessonStatus is the lifecycle stage of a lesson's progress row.
type LessonStatus string

const (
	LessonLocked     LessonStatus = "locked"
	LessonAvailable  LessonStatus = "available"
	LessonInProgress LessonStatus = "in_progress"
	LessonCompleted  LessonStatus = "completed"
)

// IsValid reports whether s is a defined lesson status.
func (s LessonStatus) IsValid() bool {
	switch s {
	case LessonLocked, LessonAvailable, LessonInProgress, LessonCompleted:
		return true
	}
	return false
}

// LessonProgress tracks, per lesson, which of the lesson's items have been
// introduced into the scheduler and where the lesson stands in the
// locked → available → in_progress → completed lifecycle.
//
// The done-sets hold item characters, matching the curriculum definition.
// Set membership is idempotent: marking the same item done twice leaves
// the set unchanged.
type LessonProgress struct {
	LessonID       string       `json:"lesson_id"`
	Status         LessonStatus `json:"status"`
	RadicalsDone   []string     `json:"radicals_done"`
	CharactersDone []string     `json:"characters_done"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewLessonProgress creates a progress row for a lesson with the given
// initial status.
func NewLessonProgress(lessonID string, status LessonStatus) (*LessonProgress, error) {
	if lessonID == "" {
		return nil, fmt.Errorf("lesson ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid lesson status: %q", status)
	}

	return &LessonProgress{
		LessonID:       lessonID,
		Status:         status,
		RadicalsDone:   []string{},
		CharactersDone: []string{},
		UpdatedAt:      time.Now().UTC(),
	}, nil
}

// MarkDone appends the item character to the done-set for its type if
// absent. Returns true if the set changed.
func (p *LessonProgress) MarkDone(itemType ItemType, char string) bool {
	set := &p.CharactersDone
	if itemType == ItemTypeRadical {
		set = &p.RadicalsDone
	}
	for _, c := range *set {
		if c == char {
			return false
		}
	}
	*set = append(*set, char)
	return true
}

// Done reports whether the item character is already in the done-set.
func (p *LessonProgress) Done(itemType ItemType, char string) bool {
	set := p.CharactersDone
	if itemType == ItemTypeRadical {
		set = p.RadicalsDone
	}
	for _, c := range set {
		if c == char {
			return true
		}
	}
	return false
}
