package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every workflow failure wraps exactly one of these.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountInactive    = errors.New("account inactive")
)

// Error carries a user-facing message next to its kind and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validation builds a ValidationError
func Validation(message string) error {
	return &Error{Kind: ErrInvalidInput, Message: message}
}

// Validationf builds a ValidationError with a formatted message
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a uniqueness violation error
func Conflict(message string) error {
	return &Error{Kind: ErrDuplicateEntry, Message: message}
}

// NotFound builds a missing-entity error
func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Forbidden builds an authorization error
func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// Unauthenticated builds an error for calls without an actor
func Unauthenticated(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Persistence wraps a storage failure that is not classified otherwise
func Persistence(message string, err error) error {
	return &Error{Kind: ErrInternalServer, Message: message, Err: err}
}

// MessageOf returns the user-facing message of err
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
