package service

import (
	"errors"
	"fmt"
)

// Error kinds.  Every error returned by the services either wraps one of
// these or is an unexpected store failure that handlers treat as internal.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
)

// Error pairs a kind with the message shown to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(msg string) error   { return &Error{Kind: ErrNotFound, Message: msg} }
func conflict(msg string) error   { return &Error{Kind: ErrConflict, Message: msg} }
func validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func invalidState(format string, args ...any) error {
	return &Error{Kind: ErrInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Message returns the caller-facing message for err, or "" if err is not
// a service error.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
