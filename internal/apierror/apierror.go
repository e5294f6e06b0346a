// Package apierror provides standardized error response structures for the API
// and the error taxonomy shared by every layer. Handlers render errors through
// Render so clients never see internal details (driver errors, stack traces).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationResponse wraps multiple field errors.
type ValidationResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationResponse {
	return &ValidationResponse{Detail: "Error de validacion", Fields: fields}
}
