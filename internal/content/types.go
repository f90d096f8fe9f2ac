package content

// Radical is a CJK radical with its mnemonic data.
type Radical struct {
	ID       int64    `json:"id"`
	Char     string   `json:"char"`
	Pinyin   string   `json:"pinyin"`
	Meaning  string   `json:"meaning"`
	Strokes  int      `json:"strokes"`
	Examples []string `json:"examples"`
	Mnemonic string   `json:"mnemonic"`
	Category string   `json:"category"`
	// Variant is the simplified or alternate written form, when one exists.
	Variant string `json:"variant,omitempty"`
}

// Character is an HSK character or word.
type Character struct {
	ID                   int64    `json:"id"`
	Char                 string   `json:"char"`
	Pinyin               string   `json:"pinyin"`
	Tone                 int      `json:"tone"`
	Meaning              string   `json:"meaning"`
	HSKLevel             int      `json:"hsk_level"`
	Radicals             []string `json:"radicals"`
	FormationType        string   `json:"formation_type"`
	FormationExplanation string   `json:"formation_explanation"`
	Examples             []string `json:"examples"`
}

// LessonDef is one lesson of the learning path. The radical and character
// lists hold item characters in the order they are introduced.
type LessonDef struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Radicals    []string `json:"radicals"`
	Characters  []string `json:"characters"`
}

// StageDef groups consecutive lessons under a named stage.
type StageDef struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Lessons     []LessonDef `json:"lessons"`
}
