package content

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

//go:embed data/radicals.json data/characters.json data/learning_path.json
var dataFS embed.FS

// Library is the loaded curriculum with lookup indexes. It is immutable
// after Load and safe for concurrent use.
type Library struct {
	radicals   []Radical
	characters []Character
	stages     []StageDef
	lessons    []LessonDef

	radicalByID     map[int64]*Radical
	radicalByChar   map[string]*Radical
	characterByID   map[int64]*Character
	characterByChar map[string]*Character
	lessonByID      map[string]int
}

// Load parses the embedded curriculum data and builds the indexes.
func Load() (*Library, error) {
	lib := &Library{
		radicalByID:     make(map[int64]*Radical),
		radicalByChar:   make(map[string]*Radical),
		characterByID:   make(map[int64]*Character),
		characterByChar: make(map[string]*Character),
		lessonByID:      make(map[string]int),
	}

	if err := loadJSON("data/radicals.json", &lib.radicals); err != nil {
		return nil, err
	}
	if err := loadJSON("data/characters.json", &lib.characters); err != nil {
		return nil, err
	}

	var path struct {
		Stages []StageDef `json:"stages"`
	}
	if err := loadJSON("data/learning_path.json", &path); err != nil {
		return nil, err
	}
	lib.stages = path.Stages

	for i := range lib.radicals {
		r := &lib.radicals[i]
		lib.radicalByID[r.ID] = r
		lib.radicalByChar[r.Char] = r
	}
	for i := range lib.characters {
		c := &lib.characters[i]
		lib.characterByID[c.ID] = c
		lib.characterByChar[c.Char] = c
	}
	for _, stage := range lib.stages {
		for _, lesson := range stage.Lessons {
			if _, exists := lib.lessonByID[lesson.ID]; exists {
				return nil, fmt.Errorf("duplicate lesson id %q in learning path", lesson.ID)
			}
			lib.lessonByID[lesson.ID] = len(lib.lessons)
			lib.lessons = append(lib.lessons, lesson)
		}
	}

	// Every lesson item must resolve to a curriculum entry.
	for _, lesson := range lib.lessons {
		for _, char := range lesson.Radicals {
			if _, ok := lib.radicalByChar[char]; !ok {
				return nil, fmt.Errorf("lesson %q references unknown radical %q", lesson.ID, char)
			}
		}
		for _, char := range lesson.Characters {
			if _, ok := lib.characterByChar[char]; !ok {
				return nil, fmt.Errorf("lesson %q references unknown character %q", lesson.ID, char)
			}
		}
	}

	return lib, nil
}

func loadJSON(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Radicals returns all radicals in curriculum order.
func (l *Library) Radicals() []Radical { return l.radicals }

// Characters returns all characters in curriculum order.
func (l *Library) Characters() []Character { return l.characters }

// Stages returns the learning path stages in order.
func (l *Library) Stages() []StageDef { return l.stages }

// Lessons returns all lessons across stages in path order.
func (l *Library) Lessons() []LessonDef { return l.lessons }

// RadicalByID looks up a radical by numeric id.
func (l *Library) RadicalByID(id int64) (*Radical, bool) {
	r, ok := l.radicalByID[id]
	return r, ok
}

// RadicalByChar looks up a radical by its character.
func (l *Library) RadicalByChar(char string) (*Radical, bool) {
	r, ok := l.radicalByChar[char]
	return r, ok
}

// CharacterByID looks up a character by numeric id.
func (l *Library) CharacterByID(id int64) (*Character, bool) {
	c, ok := l.characterByID[id]
	return c, ok
}

// CharacterByChar looks up a character entry by its character.
func (l *Library) CharacterByChar(char string) (*Character, bool) {
	c, ok := l.characterByChar[char]
	return c, ok
}

// Lesson looks up a lesson by id.
func (l *Library) Lesson(id string) (*LessonDef, bool) {
	idx, ok := l.lessonByID[id]
	if !ok {
		return nil, false
	}
	return &l.lessons[idx], true
}

// NextLesson returns the lesson following the given one in path order, or
// false if the id is unknown or last.
func (l *Library) NextLesson(id string) (*LessonDef, bool) {
	idx, ok := l.lessonByID[id]
	if !ok || idx+1 >= len(l.lessons) {
		return nil, false
	}
	return &l.lessons[idx+1], true
}

// FirstLesson returns the first lesson of the path, or false when the path
// is empty.
func (l *Library) FirstLesson() (*LessonDef, bool) {
	if len(l.lessons) == 0 {
		return nil, false
	}
	return &l.lessons[0], true
}

// ItemID resolves an item character of the given type to its curriculum id.
func (l *Library) ItemID(itemType domain.ItemType, char string) (int64, bool) {
	switch itemType {
	case domain.ItemTypeRadical:
		if r, ok := l.radicalByChar[char]; ok {
			return r.ID, true
		}
	case domain.ItemTypeCharacter:
		if c, ok := l.characterByChar[char]; ok {
			return c.ID, true
		}
	}
	return 0, false
}

// ItemChar resolves a curriculum id of the given type back to its character.
func (l *Library) ItemChar(itemType domain.ItemType, id int64) (string, bool) {
	switch itemType {
	case domain.ItemTypeRadical:
		if r, ok := l.radicalByID[id]; ok {
			return r.Char, true
		}
	case domain.ItemTypeCharacter:
		if c, ok := l.characterByID[id]; ok {
			return c.Char, true
		}
	}
	return "", false
}
