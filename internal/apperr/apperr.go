package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidationFailed
	KindNotAuthenticated
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "ValidationFailed"
	case KindNotAuthenticated:
		return "NotAuthenticated"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	default:
		return "Internal"
	}
}

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type returned by services. The HTTP layer renders it as
// {message, status, data}.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Data    []Violation
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation wraps a violation list into a 422 error.
func Validation(message string, violations []Violation) *Error {
	return &Error{Kind: KindValidationFailed, Message: message, Status: http.StatusUnprocessableEntity, Data: violations}
}

// NotAuthenticated is returned when the caller has no authenticated session.
func NotAuthenticated(message string, err error) *Error {
	return &Error{Kind: KindNotAuthenticated, Message: message, Status: http.StatusUnauthorized, Err: err}
}

// Unauthorized is returned for wrong credentials or rejected tokens.
func Unauthorized(message string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Status: http.StatusUnauthorized, Err: err}
}

// NotFound builds a not-found error. Callers pick the status because login
// reports a missing account as 401.
func NotFound(message string, status int, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: status, Err: err}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message, Status: http.StatusConflict}
}

// Internal wraps an unexpected dependency failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Status: http.StatusInternalServerError, Err: err}
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}
