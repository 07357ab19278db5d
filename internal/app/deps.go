package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/codeprep/internal/config"
	"github.com/gokatarajesh/codeprep/internal/llm"
	"github.com/gokatarajesh/codeprep/internal/question"
)

// StoreLockKey is the Redis key guarding writes to the question document.
const StoreLockKey = "codeprep:store:lock"

// Dependencies is the question service plus the infrastructure behind it.
// Both the API server and the CLI build one.
type Dependencies struct {
	Service  *question.Service
	Store    *question.Store
	Provider llm.Provider
	// Redis is nil unless STORE_LOCK_REDIS_ADDR is set.
	Redis *redis.Client
}

// Build wires provider, store and service from cfg. reg may be nil to skip
// metric registration.
func Build(ctx context.Context, cfg *config.App, logger zerolog.Logger, reg prometheus.Registerer) (*Dependencies, error) {
	provider, err := llm.NewProvider(ctx, LLMConfig(cfg.AI), logger)
	if err != nil {
		return nil, fmt.Errorf("build llm provider: %w", err)
	}

	deps, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.Provider = provider

	metrics := question.NewMetrics(reg)
	generator := question.NewGenerator(provider, question.GeneratorOptions{
		MaxTokens:      cfg.AI.MaxTokens,
		Temperature:    cfg.AI.Temperature,
		PriorTitlesMax: cfg.Store.PromptPriorMax,
	}, metrics, logger)
	deps.Service = question.NewService(generator, deps.Store, metrics, logger)

	return deps, nil
}

// OpenStore opens the question document and its writer lock without a
// completion provider. The returned Service can verify and list but not
// generate.
func OpenStore(ctx context.Context, cfg *config.App, logger zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	var locker question.Locker
	if cfg.Store.LockRedisAddr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr: cfg.Store.LockRedisAddr,
			DB:   cfg.Store.LockRedisDB,
		})
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			_ = deps.Redis.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		locker = question.NewRedisLocker(deps.Redis, StoreLockKey, cfg.Store.LockTTL)
		logger.Info().Str("addr", cfg.Store.LockRedisAddr).Msg("using redis store lock")
	}

	store, err := question.NewStore(cfg.Store.Path, locker, logger)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("open question store: %w", err)
	}
	deps.Store = store
	deps.Service = question.NewService(nil, store, nil, logger)
	return deps, nil
}

// Close releases the Redis client when one was opened.
func (d *Dependencies) Close() error {
	if d.Redis == nil {
		return nil
	}
	return d.Redis.Close()
}

// LLMConfig maps the environment-facing AI settings onto provider config.
func LLMConfig(ai config.AI) llm.Config {
	return llm.Config{
		Provider: ai.Provider,
		Gemini: llm.GeminiConfig{
			APIKey: ai.GeminiAPIKey,
			Model:  ai.GeminiModel,
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:  ai.OpenAIAPIKey,
			Model:   ai.OpenAIModel,
			BaseURL: ai.OpenAIBaseURL,
		},
		Anthropic: llm.AnthropicConfig{
			APIKey: ai.AnthropicAPIKey,
			Model:  ai.AnthropicModel,
		},
		HTTP: llm.HTTPConfig{
			URL:     ai.GeneratorURL,
			APIKey:  ai.GeneratorKey,
			Timeout: ai.Timeout,
		},
	}
}
