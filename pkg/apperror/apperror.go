// Package apperror defines the error kinds shared by all features.
//
// Services return these so handlers can map business failures to HTTP status
// codes without inspecting message strings. Anything that is not an *Error is
// treated as an infrastructure failure.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure.
type Kind int

const (
	// KindNotFound means the group, member, code, content or comment does not resolve.
	KindNotFound Kind = iota + 1
	// KindForbidden means the requester lacks owner or membership privilege.
	KindForbidden
	// KindConflict means a state transition's precondition no longer holds.
	KindConflict
	// KindInvalid means the input is malformed.
	KindInvalid
)

// Error is a business error with a kind and a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Forbidden returns a KindForbidden error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Invalid returns a KindInvalid error.
func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalid, Message: msg}
}

// KindOf returns the kind of err, or 0 if err is not a business error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is lets errors.Is match two business errors by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}
