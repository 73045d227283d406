// Package cdcerr defines the closed error taxonomy shared by every store
// and by the system façade: NotFound, AlreadyExists, Backend, Io, and
// Chunking. Callers branch on Kind with errors.Is/errors.As instead of
// parsing message strings.
package cdcerr

import (
	"errors"
	"fmt"
)

// Kind discriminates the taxonomy of failures a store or the system
// façade can produce.
type Kind int

const (
	// Unknown is the zero value; never returned by this package's
	// constructors.
	Unknown Kind = iota

	// NotFound means the requested key or fingerprint is absent.
	NotFound

	// AlreadyExists is reserved for backends exposing strict insert
	// semantics layered over the canonical upsert contract.
	AlreadyExists

	// Backend covers transport/storage failures from an external
	// backend (Redis, Postgres, SQLite, ...).
	Backend

	// Io covers byte-stream read/write failures during streaming
	// operations.
	Io

	// Chunking covers malformed or impossible chunker state, such as
	// an underlying reader error surfacing mid-split.
	Chunking
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case AlreadyExists:
		return "already_exists"
	case Backend:
		return "backend"
	case Io:
		return "io"
	case Chunking:
		return "chunking"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every store and by the
// system façade. It always carries a Kind so callers can branch without
// string matching.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, cdcerr.New(cdcerr.NotFound, "")) style sentinel checks
// work; in practice callers use the Kind-specific helpers below.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New builds an *Error of the given kind with a plain message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind, wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, fmt.Sprintf(format, args...))
}

// AlreadyExistsf builds an AlreadyExists error.
func AlreadyExistsf(format string, args ...any) *Error {
	return New(AlreadyExists, fmt.Sprintf(format, args...))
}

// Backendf wraps cause as a Backend error with a formatted message.
func Backendf(cause error, format string, args ...any) *Error {
	return Wrap(Backend, fmt.Sprintf(format, args...), cause)
}

// Iof wraps cause as an Io error with a formatted message.
func Iof(cause error, format string, args ...any) *Error {
	return Wrap(Io, fmt.Sprintf(format, args...), cause)
}

// Chunkingf wraps cause as a Chunking error with a formatted message.
func Chunkingf(cause error, format string, args ...any) *Error {
	return Wrap(Chunking, fmt.Sprintf(format, args...), cause)
}

// KindOf extracts the Kind from err, or Unknown if err is not (and does
// not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsNotFound reports whether err is, or wraps, a NotFound error.
func IsNotFound(err error) bool { return KindOf(err) == NotFound }

// IsAlreadyExists reports whether err is, or wraps, an AlreadyExists error.
func IsAlreadyExists(err error) bool { return KindOf(err) == AlreadyExists }

// IsBackend reports whether err is, or wraps, a Backend error.
func IsBackend(err error) bool { return KindOf(err) == Backend }
