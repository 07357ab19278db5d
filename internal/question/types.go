package question

import (
	"bytes"
	"encoding/json"
)

// Difficulty is one of the canonical levels Easy, Medium, Hard.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists the canonical levels in bucket order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

var difficultyAliases = map[string]Difficulty{
	"beginner":     Easy,
	"intermediate": Medium,
	"advanced":     Hard,
}

// NormalizeDifficulty maps the external beginner/intermediate/advanced
// vocabulary onto canonical levels. Other values pass through unchanged.
func NormalizeDifficulty(raw string) Difficulty {
	if d, ok := difficultyAliases[raw]; ok {
		return d
	}
	return Difficulty(raw)
}

// Valid reports whether d is a canonical level.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Text is free text that also tolerates non-string JSON (numbers, arrays,
// objects), which models routinely emit for sample inputs and outputs.
// Non-string values are kept in their compact JSON form.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*t = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// Example is the worked sample shown with a question.
type Example struct {
	Input  Text `json:"input"`
	Output Text `json:"output"`
}

// TestCase is one input/output pair used to check a solution.
type TestCase struct {
	Input  Text `json:"input"`
	Output Text `json:"output"`
}

// Question is a single coding-practice problem.
type Question struct {
	ID           string     `json:"id"`
	Difficulty   Difficulty `json:"difficulty"`
	Topic        string     `json:"topic"`
	Title        string     `json:"title"`
	Description  Text       `json:"description"`
	InputFormat  Text       `json:"input_format"`
	OutputFormat Text       `json:"output_format"`
	Constraint   Text       `json:"constraint"`
	Example      Example    `json:"example"`
	TestCases    []TestCase `json:"test_cases"`
	Tags         []string   `json:"tags"`

	// extra holds keys kept verbatim; see UnmarshalJSON.
	extra map[string]json.RawMessage
}

// normalize replaces nil slices so they persist as [] rather than null.
func (q *Question) normalize() {
	if q.TestCases == nil {
		q.TestCases = []TestCase{}
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
}

// Bucket holds a topic's questions split by difficulty.
type Bucket struct {
	Easy   []Question `json:"Easy"`
	Medium []Question `json:"Medium"`
	Hard   []Question `json:"Hard"`

	extra map[string]json.RawMessage
}

func newBucket() *Bucket {
	return &Bucket{Easy: []Question{}, Medium: []Question{}, Hard: []Question{}}
}

// Questions returns the slice for a difficulty, or nil for a non-canonical one.
func (b *Bucket) Questions(d Difficulty) []Question {
	switch d {
	case Easy:
		return b.Easy
	case Medium:
		return b.Medium
	case Hard:
		return b.Hard
	}
	return nil
}

func (b *Bucket) append(d Difficulty, q Question) {
	switch d {
	case Easy:
		b.Easy = append(b.Easy, q)
	case Medium:
		b.Medium = append(b.Medium, q)
	case Hard:
		b.Hard = append(b.Hard, q)
	}
}

// Len counts questions across all difficulties.
func (b *Bucket) Len() int {
	return len(b.Easy) + len(b.Medium) + len(b.Hard)
}

// all yields every question in Easy, Medium, Hard order.
func (b *Bucket) all() []Question {
	out := make([]Question, 0, b.Len())
	out = append(out, b.Easy...)
	out = append(out, b.Medium...)
	return append(out, b.Hard...)
}

// Document is the persisted topic → difficulty → questions mapping.
type Document map[string]*Bucket

// normalize fills missing buckets and difficulty lists after decoding.
func (d Document) normalize() {
	for topic, b := range d {
		if b == nil {
			d[topic] = newBucket()
			continue
		}
		if b.Easy == nil {
			b.Easy = []Question{}
		}
		if b.Medium == nil {
			b.Medium = []Question{}
		}
		if b.Hard == nil {
			b.Hard = []Question{}
		}
	}
}
