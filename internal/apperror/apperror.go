// Package apperror defines the domain errors shared by the sandbox, the HTTP layer
// and the command-line tools.
//
// Each constructor wraps one sentinel, so callers can branch with errors.Is while
// still showing a human-readable message:
//
//	err := apperror.Unavailable("docker daemon", "docker daemon is not running")
//	errors.Is(err, apperror.ErrUnavailable) // true
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnavailable  = errors.New("unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConfig       = errors.New("invalid configuration")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field or component causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unavailable reports that a required component (a runtime binary, a daemon)
// cannot be used at all. It is a startup failure, not a per-request one.
func Unavailable(component, message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
		Field:   component,
	}
}

// Unauthorized returns an AppError for requests without valid credentials.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// InvalidConfig reports a configuration key holding an unusable value.
func InvalidConfig(key string, value any) *AppError {
	return &AppError{
		Err:     ErrConfig,
		Message: fmt.Sprintf("invalid value %v for %s", value, key),
		Field:   key,
	}
}
