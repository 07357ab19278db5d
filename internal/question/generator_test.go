package question

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/codeprep/internal/llm"
)

func newTestGenerator(responses ...llm.MockResponse) (*Generator, *llm.MockProvider, *Metrics) {
	provider := llm.NewMockProvider(responses...)
	metrics := NewMetrics(nil)
	gen := NewGenerator(provider, GeneratorOptions{MaxTokens: 1024, Temperature: 0.5}, metrics, zerolog.Nop())
	return gen, provider, metrics
}

func TestGenerateParsesFencedCompletion(t *testing.T) {
	gen, provider, metrics := newTestGenerator(llm.MockResponse{Text: "```json\n" + twoSumJSON + "\n```"})

	q, err := gen.Generate(context.Background(), GenerateInput{Topic: "arrays", Difficulty: Easy})
	require.NoError(t, err)

	assert.Equal(t, "Two Sum", q.Title)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, Easy, q.Difficulty)
	assert.Equal(t, "arrays", q.Topic)
	require.Len(t, q.TestCases, 2)
	assert.Equal(t, Text("1 2"), q.TestCases[0].Output)

	require.Equal(t, 1, provider.CallCount())
	assert.Equal(t, 1024, provider.Calls[0].MaxTokens)
	assert.Equal(t, 0.5, provider.Calls[0].Temperature)
	assert.Contains(t, provider.Calls[0].Prompt, `"topic": "arrays"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.generations.WithLabelValues(outcomeOK)))
}

func TestGenerateForcesRequestedDifficulty(t *testing.T) {
	gen, _, _ := newTestGenerator(llm.MockResponse{Text: twoSumJSON})

	q, err := gen.Generate(context.Background(), GenerateInput{Topic: "arrays", Difficulty: Hard})
	require.NoError(t, err)
	assert.Equal(t, Hard, q.Difficulty)
}

func TestGenerateKeepsModelID(t *testing.T) {
	raw := strings.Replace(twoSumJSON, `"id": ""`, `"id": "abc"`, 1)
	gen, _, _ := newTestGenerator(llm.MockResponse{Text: raw})

	q, err := gen.Generate(context.Background(), GenerateInput{Topic: "arrays", Difficulty: Easy})
	require.NoError(t, err)
	assert.Equal(t, "abc", q.ID)
}

func TestGenerateAcceptsNonStringSamples(t *testing.T) {
	raw := `{"title": "Sum", "description": "Add them.", "example": {"input": [1, 2], "output": 3},
		"test_cases": [{"input": {"a": 1}, "output": 1}]}`
	gen, _, _ := newTestGenerator(llm.MockResponse{Text: raw})

	q, err := gen.Generate(context.Background(), GenerateInput{Topic: "math", Difficulty: Medium})
	require.NoError(t, err)
	assert.Equal(t, Text("[1,2]"), q.Example.Input)
	assert.Equal(t, Text("3"), q.Example.Output)
	assert.Equal(t, Text(`{"a":1}`), q.TestCases[0].Input)
	assert.Equal(t, "math", q.Topic)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		resp    llm.MockResponse
		outcome string
	}{
		{
			name:    "completion error",
			resp:    llm.MockResponse{Err: &llm.ErrRateLimit{}},
			outcome: outcomeCompletionError,
		},
		{
			name:    "not json",
			resp:    llm.MockResponse{Text: "Sure! Here is a question about arrays."},
			outcome: outcomeParseError,
		},
		{
			name:    "missing title",
			resp:    llm.MockResponse{Text: `{"description": "something"}`},
			outcome: outcomeInvalid,
		},
		{
			name:    "blank description",
			resp:    llm.MockResponse{Text: `{"title": "T", "description": "   "}`},
			outcome: outcomeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, _, metrics := newTestGenerator(tt.resp)

			q, err := gen.Generate(context.Background(), GenerateInput{Topic: "arrays", Difficulty: Easy})
			assert.Nil(t, q)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.generations.WithLabelValues(tt.outcome)))
		})
	}
}

func TestGenerateWrapsProviderError(t *testing.T) {
	gen, _, _ := newTestGenerator(llm.MockResponse{Err: &llm.ErrRateLimit{}})

	_, err := gen.Generate(context.Background(), GenerateInput{Topic: "arrays", Difficulty: Easy})
	var rateLimit *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rateLimit))
}

func TestGenerateRequiresTopicAndDifficulty(t *testing.T) {
	gen, provider, _ := newTestGenerator()

	_, err := gen.Generate(context.Background(), GenerateInput{Difficulty: Easy})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, 0, provider.CallCount())
}

func TestCleanCompletion(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanCompletion("  ```json\n{\"a\":1}\n```  "))
	assert.Equal(t, `{"a":1}`, cleanCompletion("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, cleanCompletion(`{"a":1}`))
}
