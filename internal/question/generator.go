package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/codeprep/internal/llm"
)

// ErrGenerationFailed covers every way a completion can fail to become a
// question: provider error, unparseable text, or missing required fields.
var ErrGenerationFailed = errors.New("question generation failed")

// Completer is the text-completion capability the generator depends on.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// GeneratorOptions tunes completion requests.
type GeneratorOptions struct {
	MaxTokens      int
	Temperature    float64
	PriorTitlesMax int
}

// GenerateInput describes one generation request.
type GenerateInput struct {
	Topic       string
	Difficulty  Difficulty
	PriorTitles []string
}

// Generator turns a (topic, difficulty) pair into a Question via one completion.
type Generator struct {
	completer Completer
	opts      GeneratorOptions
	metrics   *Metrics
	logger    zerolog.Logger
}

func NewGenerator(completer Completer, opts GeneratorOptions, metrics *Metrics, logger zerolog.Logger) *Generator {
	return &Generator{
		completer: completer,
		opts:      opts,
		metrics:   metrics,
		logger:    logger.With().Str("component", "question_generator").Logger(),
	}
}

// Generate makes exactly one completion call; nothing is retried. On
// success the question carries a non-empty id and the requested difficulty.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (*Question, error) {
	if in.Topic == "" || in.Difficulty == "" {
		return nil, fmt.Errorf("%w: topic and difficulty", ErrMissingField)
	}

	prompt := buildPrompt(in.Topic, in.Difficulty, in.PriorTitles, g.opts.PriorTitlesMax)

	start := time.Now()
	resp, err := g.completer.Complete(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	g.metrics.observeCompletion(time.Since(start).Seconds())
	if err != nil {
		g.metrics.generation(outcomeCompletionError)
		g.logger.Error().Err(err).Str("topic", in.Topic).Msg("completion failed")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	q, err := parseQuestion(resp.Text)
	if err != nil {
		g.metrics.generation(outcomeParseError)
		g.logger.Error().Err(err).Str("topic", in.Topic).Str("raw", resp.Text).Msg("invalid JSON from model")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if err := validateGenerated(q); err != nil {
		g.metrics.generation(outcomeInvalid)
		g.logger.Error().Err(err).Str("topic", in.Topic).Msg("incomplete question from model")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Difficulty = in.Difficulty
	if q.Topic == "" {
		q.Topic = in.Topic
	}
	q.normalize()

	g.metrics.generation(outcomeOK)
	return q, nil
}

// cleanCompletion strips surrounding whitespace and markdown fences.
func cleanCompletion(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func parseQuestion(raw string) (*Question, error) {
	var q Question
	if err := json.Unmarshal([]byte(cleanCompletion(raw)), &q); err != nil {
		return nil, fmt.Errorf("parse completion: %w", err)
	}
	return &q, nil
}

func validateGenerated(q *Question) error {
	if strings.TrimSpace(q.Title) == "" {
		return errors.New("title is empty")
	}
	if strings.TrimSpace(string(q.Description)) == "" {
		return errors.New("description is empty")
	}
	return nil
}
