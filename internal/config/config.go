package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"codeprep"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	StaticDir               string        `env:"STATIC_DIR"`

	Store      Store
	AI         AI
	CORS       CORS
	Completion Completion
}

// Store configures the JSON question document and its writer lock.
type Store struct {
	Path           string        `env:"STORE_PATH" envDefault:"questions.json"`
	LockRedisAddr  string        `env:"STORE_LOCK_REDIS_ADDR"`
	LockRedisDB    int           `env:"STORE_LOCK_REDIS_DB" envDefault:"0"`
	LockTTL        time.Duration `env:"STORE_LOCK_TTL" envDefault:"10s"`
	PromptPriorMax int           `env:"PROMPT_PRIOR_TITLES" envDefault:"20"`
}

// AI configures the text-completion provider.
type AI struct {
	Provider    string        `env:"AI_PROVIDER" envDefault:"gemini"`
	Timeout     time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"60s"`
	MaxTokens   int           `env:"AI_MAX_TOKENS" envDefault:"2048"`
	Temperature float64       `env:"AI_TEMPERATURE" envDefault:"0.9"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-flash"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku"`

	GeneratorURL string `env:"AI_GENERATOR_URL"`
	GeneratorKey string `env:"AI_GENERATOR_API_KEY"`
}

// Completion configures the standalone completion service (cmd/completiond).
type Completion struct {
	Addr   string `env:"COMPLETION_ADDR" envDefault:"0.0.0.0:9090"`
	APIKey string `env:"COMPLETION_API_KEY"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Origin,X-Requested-With,Content-Type,Accept,Authorization"`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
