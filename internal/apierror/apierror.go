// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Kind classifies a service-layer error so handlers can map it to an HTTP
// status without string matching. Transient infrastructure failures are a
// distinct kind: they must never be presented as a permission or not-found
// problem.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

// Error is the typed error services return. Meta carries extra response
// fields (e.g. the already-open caja on an open conflict).
type Error struct {
	Kind   Kind
	Detail string
	Meta   map[string]interface{}
}

func (e *Error) Error() string { return e.Detail }

func Validation(detail string) *Error      { return &Error{Kind: KindValidation, Detail: detail} }
func Unauthenticated(detail string) *Error { return &Error{Kind: KindUnauthenticated, Detail: detail} }
func Forbidden(detail string) *Error       { return &Error{Kind: KindForbidden, Detail: detail} }
func NotFound(detail string) *Error        { return &Error{Kind: KindNotFound, Detail: detail} }
func Conflict(detail string) *Error        { return &Error{Kind: KindConflict, Detail: detail} }
func Unavailable(detail string) *Error     { return &Error{Kind: KindUnavailable, Detail: detail} }
func Internal(detail string) *Error        { return &Error{Kind: KindInternal, Detail: detail} }

// WithMeta attaches extra response fields and returns the same error.
func (e *Error) WithMeta(key string, value interface{}) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	e.Meta[key] = value
	return e
}

// StatusCode maps an error to its HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
