// Package platformerrors defines the error envelope shared by every layer.
// Each error carries the layer it originated from, a stable machine-readable
// type a client can branch on, a human-readable message, and a trace code
// that identifies the exact raise site in logs.
package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Layer identifies the architectural layer that raised an error.
type Layer string

const (
	LayerHandler        Layer = "handler"
	LayerDomain         Layer = "domain"
	LayerRepository     Layer = "repository"
	LayerInfrastructure Layer = "infrastructure"
)

// ErrorType is the stable classification exposed to API clients.
// It never changes for a given failure mode; the message may.
type ErrorType string

const (
	// ErrorTypeValidation covers malformed input: missing fields, bad
	// identifier formats, length limits. No side effects occurred.
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound covers absent resources and resources owned by a
	// different caller. The two are intentionally indistinguishable.
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeUnauthorized covers missing or invalid credentials.
	ErrorTypeUnauthorized ErrorType = "unauthorized"

	// ErrorTypeExternal covers upstream services answering with a
	// non-success status or an unparseable body.
	ErrorTypeExternal ErrorType = "external"

	// ErrorTypeUnavailable covers upstream calls that never produced an
	// answer: transport failures, timeouts, connection refusals. Distinct
	// from ErrorTypeExternal so callers can tell "rejected" from
	// "could not verify".
	ErrorTypeUnavailable ErrorType = "unavailable"

	// ErrorTypeDatabaseError covers store-layer failures.
	ErrorTypeDatabaseError ErrorType = "database_error"

	// ErrorTypeInternal covers everything else, including critical
	// persistence failures surfaced to the caller.
	ErrorTypeInternal ErrorType = "internal"
)

// PlatformError is the concrete error value produced by this package.
type PlatformError struct {
	Layer   Layer
	Type    ErrorType
	Message string
	Code    string
	TraceID string
	Cause   error
}

func (e *PlatformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Layer, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Layer, e.Message)
}

func (e *PlatformError) Unwrap() error {
	return e.Cause
}

// NewError builds a PlatformError at the given layer and classification.
// code pins the raise site so a log line can be traced back to one call.
func NewError(ctx context.Context, layer Layer, errType ErrorType, message string, cause error, code string) error {
	return &PlatformError{
		Layer:   layer,
		Type:    errType,
		Message: message,
		Code:    code,
		TraceID: traceIDFromContext(ctx),
		Cause:   cause,
	}
}

// AsError wraps err with a layer and message while preserving the original
// classification and trace code when err already is a PlatformError.
// A plain error is classified as internal.
func AsError(ctx context.Context, layer Layer, err error, message string) error {
	if err == nil {
		return nil
	}

	var pe *PlatformError
	if errors.As(err, &pe) {
		return &PlatformError{
			Layer:   layer,
			Type:    pe.Type,
			Message: message,
			Code:    pe.Code,
			TraceID: traceIDFromContext(ctx),
			Cause:   err,
		}
	}

	return &PlatformError{
		Layer:   layer,
		Type:    ErrorTypeInternal,
		Message: message,
		TraceID: traceIDFromContext(ctx),
		Cause:   err,
	}
}

// AsPlatformError extracts the nearest PlatformError from an error chain.
func AsPlatformError(err error) (*PlatformError, bool) {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// TypeOf reports the classification of err, or ErrorTypeInternal for
// errors that never passed through this package.
func TypeOf(err error) ErrorType {
	if pe, ok := AsPlatformError(err); ok {
		return pe.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries the given classification.
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// ErrorTypeToHTTPStatus maps a classification to its response status code.
// Unavailable is distinct from external: 503 says the upstream never
// answered, 502 says it answered and rejected.
func ErrorTypeToHTTPStatus(errType ErrorType) int {
	switch errType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeExternal:
		return http.StatusBadGateway
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeDatabaseError, ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func traceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
