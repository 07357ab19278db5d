package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeMissingField      = "missing_field"
	ErrCodeInvalidDifficulty = "invalid_difficulty"
	ErrCodeMethodNotAllowed  = "method_not_allowed"

	// Auth errors
	ErrCodeUnauthorized = "unauthorized"

	// Question errors
	ErrCodeGenerationFailed = "generation_failed"
	ErrCodeSaveFailed       = "save_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
	ErrCodeRateLimited        = "rate_limited"
)
