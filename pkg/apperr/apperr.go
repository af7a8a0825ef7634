// Package apperr defines the application error taxonomy.
//
// Every terminal, user-visible failure is an *Error carrying the HTTP status
// it should surface as. Services return these; pkg/response maps them onto
// the JSON envelope. Anything that is not an *Error renders as a 500.
package apperr

import (
	"errors"
	"net/http"
)

// Error is an application error with an HTTP status.
type Error struct {
	Status  int
	Message string
	Err     error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an *Error with an explicit status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap attaches a cause to an *Error.
func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// Internal wraps an unexpected failure as a 500.
func Internal(err error) *Error {
	return Wrap(http.StatusInternalServerError, "Internal Server Error", err)
}

// StatusOf returns the HTTP status for err: the carried status for an
// *Error, 500 for everything else.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-visible message for err. Non-application
// errors collapse to a generic message so internals never leak.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Internal Server Error"
}
