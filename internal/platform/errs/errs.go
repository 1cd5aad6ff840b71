// Package errs defines the error taxonomy shared by all domain services.
// Every boundary operation fails with an *Error carrying a stable
// machine-readable kind plus a human-readable reason, never a bare
// internal error.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for API consumers.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindInvalidInput   Kind = "invalid_input"
	KindAccessDenied   Kind = "access_denied"
	KindUpdateConflict Kind = "update_conflict"
	KindNotifyFailure  Kind = "notify_failure"
	KindInternal       Kind = "internal"
)

// Error is a classified service error.
type Error struct {
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// E constructs a classified error.
func E(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from an error chain. Unclassified errors
// report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf extracts the human-readable reason from an error chain.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return "internal error"
}

// HTTPStatus maps an error kind to the status code handlers should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindAccessDenied:
		return http.StatusForbidden
	case KindUpdateConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
