package question

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Service is the entry point for the API and CLI: it maps the external
// difficulty vocabulary and delegates to the Generator and the Store.
type Service struct {
	generator *Generator
	store     *Store
	metrics   *Metrics
	logger    zerolog.Logger
}

func NewService(generator *Generator, store *Store, metrics *Metrics, logger zerolog.Logger) *Service {
	return &Service{
		generator: generator,
		store:     store,
		metrics:   metrics,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

// VerifyResult is the outcome of saving a verified question.
type VerifyResult struct {
	Question Question
	// Added is false when the topic already held the title or id.
	Added bool
}

// Generate produces a fresh question. Titles already stored for the topic
// are passed to the prompt so the model steers away from them.
func (s *Service) Generate(ctx context.Context, topic, difficulty string) (*Question, error) {
	if topic == "" || difficulty == "" {
		return nil, fmt.Errorf("%w: topic and difficulty", ErrMissingField)
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no completion provider configured", ErrGenerationFailed)
	}
	return s.generator.Generate(ctx, GenerateInput{
		Topic:       topic,
		Difficulty:  NormalizeDifficulty(difficulty),
		PriorTitles: s.store.Titles(topic),
	})
}

// Verify persists a human-approved question.
func (s *Service) Verify(ctx context.Context, topic, difficulty string, q Question) (VerifyResult, error) {
	if topic == "" || difficulty == "" {
		return VerifyResult{}, fmt.Errorf("%w: topic and difficulty", ErrMissingField)
	}

	saved, added, err := s.store.AddQuestion(ctx, topic, NormalizeDifficulty(difficulty), q)
	if err != nil {
		s.metrics.verification(outcomeError)
		return VerifyResult{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	if added {
		s.metrics.verification(outcomeAdded)
		s.logger.Info().Str("topic", topic).Str("id", saved.ID).Str("title", saved.Title).Msg("question saved")
	} else {
		s.metrics.verification(outcomeDuplicate)
		s.logger.Info().Str("topic", topic).Str("title", saved.Title).Msg("duplicate question not saved")
	}
	return VerifyResult{Question: saved, Added: added}, nil
}

// Questions returns the full stored document.
func (s *Service) Questions(ctx context.Context) Document {
	return s.store.Load()
}
