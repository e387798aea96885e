package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors wrap one of these so callers can branch with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("conflict")
	ErrTransient    = errors.New("record store unavailable")
	ErrUnauthorized = errors.New("not authenticated")
)

// Common errors
var (
	ErrInvalidID          = NewError(ErrNotFound, "invalid id")
	ErrInvalidCredentials = NewError(ErrUnauthorized, "invalid username or password")
)

// Error is a specific failure that belongs to one of the error kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError creates an error of the given kind.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Validationf builds an ErrValidation with a field-specific message.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}
