package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/codeprep/pkg/http/errors"
)

// CompletionHandler serves POST /complete on top of a Provider. It is the
// server side of HTTPProvider, so one process holding the vendor key can
// answer completions for several API replicas.
type CompletionHandler struct {
	provider Provider
	apiKey   string
	logger   zerolog.Logger
}

// NewCompletionHandler wraps provider. A non-empty apiKey must be presented
// as a bearer token.
func NewCompletionHandler(provider Provider, apiKey string, logger zerolog.Logger) *CompletionHandler {
	return &CompletionHandler{
		provider: provider,
		apiKey:   apiKey,
		logger:   logger.With().Str("component", "completion_http").Logger(),
	}
}

func (h *CompletionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}
	if h.apiKey != "" && strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") != h.apiKey {
		httperrors.RespondError(w, http.StatusUnauthorized, httperrors.ErrCodeUnauthorized, "invalid api key")
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "prompt is required", "prompt")
		return
	}

	resp, err := h.provider.Complete(r.Context(), Request{
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(completeResponse{Text: resp.Text, Model: resp.Model})
}

func (h *CompletionHandler) respondError(w http.ResponseWriter, err error) {
	var rateLimit *ErrRateLimit
	var unavailable *ErrProviderUnavailable

	switch {
	case errors.As(err, &rateLimit):
		httperrors.RespondError(w, http.StatusTooManyRequests, httperrors.ErrCodeRateLimited, err.Error())
	case errors.As(err, &unavailable):
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, err.Error())
	default:
		h.logger.Error().Err(err).Msg("completion failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, err.Error())
	}
}
