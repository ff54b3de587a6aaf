// Package bm25err defines the typed error kinds surfaced by the public API,
// grounded on the teacher's fmt.Errorf("...: %w", err)/errors.New style.
package bm25err

import (
	"errors"
	"fmt"
	"strings"
)

// Kind enumerates the abstract error kinds of the specification.
type Kind uint8

const (
	InvalidCorpus Kind = iota
	InvalidDocument
	InvalidLimit
	UnknownField
	Disposed
	Cancelled
	WorkerTimeout
	InternalError
)

func (k Kind) String() string {
	switch k {
	case InvalidCorpus:
		return "InvalidCorpus"
	case InvalidDocument:
		return "InvalidDocument"
	case InvalidLimit:
		return "InvalidLimit"
	case UnknownField:
		return "UnknownField"
	case Disposed:
		return "Disposed"
	case Cancelled:
		return "Cancelled"
	case WorkerTimeout:
		return "WorkerTimeout"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type carried across the public API and the
// worker boundary.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New builds an *Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that carries an underlying cause, e.g. an internal
// scoring error crossing the worker boundary.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Wrapped: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// UnknownFieldError builds the UnknownField error naming the offending
// fields and the full indexed-fields set, per the specification's error
// message requirement.
func UnknownFieldError(offending, known []string) *Error {
	return Newf(UnknownField,
		"filter references unindexed field(s) [%s]; indexed fields are [%s]",
		strings.Join(offending, ", "), strings.Join(known, ", "))
}
