// Package apperr defines the typed error taxonomy shared by the order
// lifecycle engine and its HTTP handlers. Every expected failure of a public
// operation is one of these kinds; handlers map each kind to a distinct
// response instead of collapsing them into a generic internal error.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Validation: malformed or semantically invalid input.
	Validation Kind = iota
	// NotFound: referenced order/restaurant/menu item does not exist.
	NotFound
	// Forbidden: actor authenticated but not authorized for this action.
	Forbidden
	// InvalidTransition: transition not legal from the current status,
	// regardless of actor.
	InvalidTransition
	// Conflict: optimistic-concurrency check failed; caller should refetch.
	Conflict
	// Persistence: store unavailable, constraint violation, timeout.
	Persistence
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case InvalidTransition:
		return "invalid_transition"
	case Conflict:
		return "conflict"
	case Persistence:
		return "persistence"
	}
	return "unknown"
}

// Error carries a kind, a user-facing message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err if it is (or wraps) an *Error, and a flag
// saying whether it was one.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
