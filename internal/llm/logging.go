package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LoggingProvider logs every completion with latency and token usage.
type LoggingProvider struct {
	inner  Provider
	logger zerolog.Logger
}

// WithLogging wraps a Provider with structured request logging.
func WithLogging(p Provider, logger zerolog.Logger) Provider {
	return &LoggingProvider{
		inner:  p,
		logger: logger.With().Str("component", "llm").Str("model", p.ModelID()).Logger(),
	}
}

func (l *LoggingProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Complete(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		l.logger.Warn().Err(err).
			Int("prompt_chars", len(req.Prompt)).
			Dur("latency", elapsed).
			Msg("completion failed")
		return nil, err
	}

	l.logger.Debug().
		Int("prompt_chars", len(req.Prompt)).
		Int("completion_chars", len(resp.Text)).
		Int("input_tokens", resp.Usage.InputTokens).
		Int("output_tokens", resp.Usage.OutputTokens).
		Dur("latency", elapsed).
		Msg("completion ok")
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
