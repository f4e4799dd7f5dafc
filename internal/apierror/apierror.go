// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ConflictoStock reports a rejected movement together with the quantity the
// caller can actually move ("solo N disponibles" / "solo N en uso").
type ConflictoStock struct {
	Detail   string `json:"detail"`
	Cantidad int    `json:"cantidad"`
}

func NewConflictoStock(msg string, cantidad int) *ConflictoStock {
	return &ConflictoStock{Detail: msg, Cantidad: cantidad}
}
