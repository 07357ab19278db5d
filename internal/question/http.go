package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/codeprep/internal/logging"
	httperrors "github.com/gokatarajesh/codeprep/pkg/http/errors"
)

// HTTPHandler exposes the generate / verify / list endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Register mounts the endpoints under prefix ("" for the root).
func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc(prefix+"/question", h.HandleGenerate)
	mux.HandleFunc(prefix+"/verify", h.HandleVerify)
	mux.HandleFunc(prefix+"/questions", h.HandleList)
}

type generateRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type verifyRequest struct {
	Topic      string          `json:"topic"`
	Difficulty string          `json:"difficulty"`
	Question   json.RawMessage `json:"question"`
}

type verifyResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Added    bool     `json:"added"`
	Question Question `json:"question"`
}

// HandleGenerate handles POST /question
func (h *HTTPHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Topic == "" || req.Difficulty == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Missing topic or difficulty")
		return
	}

	q, err := h.svc.Generate(r.Context(), req.Topic, req.Difficulty)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, q)
}

// HandleVerify handles POST /verify
func (h *HTTPHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Topic == "" || req.Difficulty == "" || isEmptyObject(req.Question) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Missing required fields")
		return
	}

	var q Question
	if err := json.Unmarshal(req.Question, &q); err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidRequest, "Invalid question payload", "question")
		return
	}

	result, err := h.svc.Verify(r.Context(), req.Topic, req.Difficulty, q)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, verifyResponse{
		Success:  true,
		Message:  "Question saved successfully",
		Added:    result.Added,
		Question: result.Question,
	})
}

// HandleList handles GET /questions
func (h *HTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, h.svc.Questions(r.Context()))
}

// respondServiceError is the single place error kinds become status codes.
func (h *HTTPHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())

	switch {
	case errors.Is(err, ErrMissingField):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, err.Error())
	case errors.Is(err, ErrInvalidDifficulty):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidDifficulty, err.Error(), "difficulty")
	case errors.Is(err, ErrGenerationFailed):
		logger.Warn().Err(err).Msg("generation failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeGenerationFailed, "Failed to generate question")
	case errors.Is(err, ErrSaveFailed):
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("save failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSaveFailed, err.Error())
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		httperrors.RespondInternalError(w, err.Error())
	}
}

func isEmptyObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil && len(obj) == 0 {
		return true
	}
	return false
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
