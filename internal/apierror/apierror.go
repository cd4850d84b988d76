// Package apierror defines the error envelopes returned to API clients.
// Internal details (stack traces, driver errors) never leave through here.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// NotFound is the shared body for 404 responses on tenant-scoped lookups.
// The same message is used whether the record does not exist or belongs to
// another tenant, so callers cannot probe foreign IDs.
func NotFound(entity string) *APIError {
	return &APIError{Detail: entity + " no encontrada"}
}

// ValidationError carries per-field binding failures.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
