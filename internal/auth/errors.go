// internal/auth/errors.go
package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind identifies a class of authentication or authorization failure.
type ErrorKind string

const (
	// ErrorMissingToken indicates the Authorization header was absent, had the
	// wrong prefix, or carried no token after the prefix
	ErrorMissingToken ErrorKind = "missing_token"

	// ErrorTokenExpired indicates the token expiry is in the past
	ErrorTokenExpired ErrorKind = "token_expired"

	// ErrorTokenInvalid indicates a malformed token or a signature mismatch
	ErrorTokenInvalid ErrorKind = "token_invalid"

	// ErrorTokenInternal indicates an unexpected verifier failure or an
	// empty subject claim
	ErrorTokenInternal ErrorKind = "token_internal"

	// ErrorAccessDenied indicates no permitted path pattern matched the
	// request path
	ErrorAccessDenied ErrorKind = "access_denied"
)

// Sentinel errors used by TokenVerifier implementations to classify failures.
var (
	// ErrTokenExpired marks a token whose expiry check failed
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed marks a token that failed to parse or whose
	// signature did not verify
	ErrTokenMalformed = errors.New("token malformed or signature invalid")
)

// Error is a tagged authentication failure routed to the error renderer.
// It never escapes the filter as a Go error value; it is consumed by the
// renderer and terminates the request.
type Error struct {
	// Kind is the failure class
	Kind ErrorKind

	// Message is a human-readable description safe to expose to clients
	Message string

	// Err is the underlying cause, if any (not exposed to clients)
	Err error
}

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error of the given kind wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code the default renderer maps this kind to.
func (e *Error) Status() int {
	switch e.Kind {
	case ErrorMissingToken, ErrorTokenExpired, ErrorTokenInvalid:
		return http.StatusUnauthorized
	case ErrorAccessDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
