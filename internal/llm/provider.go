package llm

import "context"

// Provider turns a prompt into a single text completion.
type Provider interface {
	// Complete sends one prompt and returns the raw completion text. Providers
	// do not post-process the text; callers own parsing.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one completion.
type Request struct {
	Prompt string

	// MaxTokens caps the completion length. Zero selects the provider default.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Response holds the raw completion text.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

const defaultMaxTokens = 2048

// resolveModel maps a friendly model name to a provider model ID.
// Unknown names pass through so direct model IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
