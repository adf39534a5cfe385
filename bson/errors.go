package bson

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a bson package error, per the error taxonomy of the
// package's design: user-facing malformed input, a mutation that would
// overflow the i32 length limit, or a buffer invariant violation that
// indicates a bug in this package rather than bad input.
type Kind int

const (
	// InvalidArgument covers malformed input: bad UTF-8, embedded NUL
	// bytes in keys, out-of-range binary subtypes, duplicate keys on
	// strict validation, and similar.
	InvalidArgument Kind = iota
	// DocumentTooLarge is returned when a mutation would push the
	// encoded document length past the BSON i32 maximum.
	DocumentTooLarge
	// Internal indicates a byte-buffer invariant this package is
	// supposed to maintain was violated; treated as a programming error.
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case DocumentTooLarge:
		return "DocumentTooLarge"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every fallible operation in this
// package.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bson: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("bson: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func wrapError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: errors.WithStack(cause)}
}

func invalidArgf(format string, a ...interface{}) *Error {
	return newError(InvalidArgument, fmt.Sprintf(format, a...))
}

func tooLargef(format string, a ...interface{}) *Error {
	return newError(DocumentTooLarge, fmt.Sprintf(format, a...))
}

func internalf(format string, a ...interface{}) *Error {
	return newError(Internal, fmt.Sprintf(format, a...))
}

// IsKind reports whether err is a *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
