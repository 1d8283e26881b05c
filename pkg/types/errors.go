package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationKind categorizes a rejected gateway input
type ValidationKind string

const (
	KindInvalidHost    ValidationKind = "invalid_host"
	KindInvalidPort    ValidationKind = "invalid_port"
	KindInvalidRequest ValidationKind = "invalid_request"
)

// ValidationError is returned when caller input fails local validation.
// It always maps to HTTP 400.
type ValidationError struct {
	Kind    ValidationKind
	Message string // Caller-facing message
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Kind, e.Message)
}

// StatusCode implements StatusCoder
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// NewValidationError creates a new validation error
func NewValidationError(kind ValidationKind, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

// UpstreamError represents a non-2xx reply or an error payload from the
// image API or the catalog backend.
type UpstreamError struct {
	Upstream    string // "openai" or "catalog"
	Operation   string // What operation failed (e.g., "generate_image", "signup")
	Status      int    // Upstream HTTP status (0 when the request never completed)
	Message     string // Caller-facing message
	OriginalErr error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("[%s] %s failed: %s (status=%d)", e.Upstream, e.Operation, e.Message, e.Status)
	}
	return fmt.Sprintf("[%s] %s failed: %s", e.Upstream, e.Operation, e.Message)
}

// Unwrap returns the original error for errors.Is/As
func (e *UpstreamError) Unwrap() error {
	return e.OriginalErr
}

// StatusCode implements StatusCoder. A request that never got an answer
// is reported as 500.
func (e *UpstreamError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// WithOriginalErr sets the original error field and returns the error for chaining
func (e *UpstreamError) WithOriginalErr(err error) *UpstreamError {
	e.OriginalErr = err
	return e
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(upstream, operation string, status int, message string) *UpstreamError {
	return &UpstreamError{
		Upstream:  upstream,
		Operation: operation,
		Status:    status,
		Message:   message,
	}
}

// MissingDataError signals an otherwise-successful upstream reply that lacks
// an expected field.
type MissingDataError struct {
	Upstream string
	Field    string
	Message  string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("[%s] response missing %s", e.Upstream, e.Field)
}

// StatusCode implements StatusCoder
func (e *MissingDataError) StatusCode() int {
	return http.StatusInternalServerError
}

// NewMissingDataError creates a new MissingDataError
func NewMissingDataError(upstream, field, message string) *MissingDataError {
	return &MissingDataError{Upstream: upstream, Field: field, Message: message}
}

// StatusCoder is implemented by errors that know their HTTP status
type StatusCoder interface {
	StatusCode() int
}

// HTTPStatus returns the HTTP status that err maps to at the route boundary
func HTTPStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
