package question

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/codeprep/internal/llm"
)

const twoSumJSON = `{
  "id": "",
  "difficulty": "Easy",
  "topic": "arrays",
  "title": "Two Sum",
  "description": "Find two indices whose values add up to target.",
  "input_format": "n, then n integers, then target",
  "output_format": "two indices",
  "constraint": "2 <= n <= 10^4",
  "example": {"input": "4\n2 7 11 15\n9", "output": "0 1"},
  "test_cases": [
    {"input": "3\n3 2 4\n6", "output": "1 2"},
    {"input": "2\n3 3\n6", "output": "0 1"}
  ],
  "tags": ["arrays", "Easy"]
}`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "questions.json"), nil, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func newTestService(t *testing.T, responses ...llm.MockResponse) (*Service, *llm.MockProvider, *Store) {
	t.Helper()
	store := newTestStore(t)
	provider := llm.NewMockProvider(responses...)
	metrics := NewMetrics(nil)
	gen := NewGenerator(provider, GeneratorOptions{PriorTitlesMax: 20}, metrics, zerolog.Nop())
	return NewService(gen, store, metrics, zerolog.Nop()), provider, store
}

func sampleQuestion(title string) Question {
	return Question{
		Title:       title,
		Description: "desc",
		TestCases:   []TestCase{{Input: "1", Output: "1"}},
		Tags:        []string{"arrays"},
	}
}
