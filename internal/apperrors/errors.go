package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these so
// the HTTP layer can pick a status code with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDeliveryFailed     = errors.New("delivery failed")
	ErrServer             = errors.New("server error")
)

// Error carries a client-facing message alongside its kind and an optional cause.
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

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// New creates an error of the given kind.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with formatting.
func Newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and a client-facing message to a lower-level error.
// A nil err returns nil.
func Wrap(kind error, message string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is reports whether err is of the given kind.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}

// Message returns the client-facing message of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
