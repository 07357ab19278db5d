package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPProvider calls a standalone completion service (for example a Gemini
// wrapper running next to the API) over plain JSON.
//
//	POST {base}/complete  {"prompt": "...", "max_tokens": 0, "temperature": 0}
//	200                   {"text": "...", "model": "..."}
type HTTPProvider struct {
	httpClient  *http.Client
	config      HTTPConfig
	completeURL string
}

// NewHTTPProvider builds a provider for the completion service at cfg.URL.
func NewHTTPProvider(cfg HTTPConfig) (*HTTPProvider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("generator endpoint not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPProvider{
		httpClient:  &http.Client{Timeout: timeout},
		config:      cfg,
		completeURL: strings.TrimSuffix(cfg.URL, "/") + "/complete",
	}, nil
}

func (p *HTTPProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(completeRequest{
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.completeURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, fmt.Errorf("generator returned status %d", resp.StatusCode))
	}

	var out completeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("decode generator payload: %w", err)}
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("generator returned empty text")}
	}

	model := out.Model
	if model == "" {
		model = p.ModelID()
	}
	return &Response{Text: out.Text, Model: model}, nil
}

func (p *HTTPProvider) ModelID() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	return "http"
}

type completeRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type completeResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}
