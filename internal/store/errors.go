package store

import (
	"fmt"
	"net/http"
)

// Error is a store-level error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
	base    *Error // Sentinel this error was derived from (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target matches this error. Errors built with
// WithMessage or WithCause still match the sentinel they derive from,
// so errors.Is(err, ErrInvalidInput) holds for customized variants.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	for b := e; b != nil; b = b.base {
		if b == t {
			return true
		}
	}
	return false
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
		base:    e,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
		base:    e,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}

	ErrUnauthorized = &Error{
		Code:    http.StatusUnauthorized,
		Message: "unauthorized",
	}

	ErrForbidden = &Error{
		Code:    http.StatusForbidden,
		Message: "forbidden",
	}
)

// Named sentinels returned by specific operations.
var (
	// ErrPaperNotFound is returned when a catalog lookup misses.
	ErrPaperNotFound = ErrNotFound.WithMessage("paper not found")

	// ErrEntryNotFound is returned when a user has no library entry for a paper.
	ErrEntryNotFound = ErrNotFound.WithMessage("paper is not in your library")

	// ErrProfileNotFound is returned when a profile lookup misses.
	ErrProfileNotFound = ErrNotFound.WithMessage("profile not found")

	// ErrPostNotFound is returned when a post lookup misses.
	ErrPostNotFound = ErrNotFound.WithMessage("post not found")

	// ErrUsernameTaken is returned when saving a profile with a username
	// another user already holds.
	ErrUsernameTaken = ErrAlreadyExists.WithMessage("Username is taken")

	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = ErrInvalidInput.WithMessage("cannot follow yourself")
)
