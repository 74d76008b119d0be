// Package syncerr defines the error taxonomy for the pod sync pipeline.
// Every stage fails fast with one of these kinds; handlers translate the
// kind into an HTTP status.
package syncerr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	// Unauthenticated covers a missing/invalid credential, or an identity
	// RPC failure that reads like an auth failure.
	Unauthenticated Kind = iota
	// Forbidden means the caller is authenticated but not a household admin.
	Forbidden
	// InvalidRequest covers identity RPC failures that are not auth-ish.
	InvalidRequest
	// InternalInconsistency means the identity layer violated its contract.
	InternalInconsistency
	// UpstreamUnavailable means every aggregator candidate failed, or one
	// failed in a way that trying another path would not fix.
	UpstreamUnavailable
	// UnexpectedUpstreamShape means the aggregator returned JSON that could
	// not be normalized into an accounts list.
	UnexpectedUpstreamShape
	UpsertFailed
	DeactivateFailed
)

// Error is a classified pipeline error. Diagnostics carries operator-facing
// fields (attempted URLs, raw bodies) that are echoed in error responses.
type Error struct {
	Kind        Kind
	Message     string
	Diagnostics map[string]any
	cause       error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithDiagnostic attaches an operator-facing field and returns e for chaining.
func (e *Error) WithDiagnostic(key string, value any) *Error {
	if e.Diagnostics == nil {
		e.Diagnostics = make(map[string]any)
	}
	e.Diagnostics[key] = value
	return e
}

// StatusCode maps the kind to the HTTP status the envelope reports.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case InvalidRequest:
		return http.StatusBadRequest
	case UpstreamUnavailable, UnexpectedUpstreamShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// As extracts a *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
