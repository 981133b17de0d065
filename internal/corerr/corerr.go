// Package corerr is the kinded, chained error type shared by the root
// package and the Internal Handler. It lives here, rather than in the
// root package, so the handler package — which the root package imports —
// can build and check error chains without an import cycle.
package corerr

import (
	"errors"
	"fmt"

	"github.com/hyp3rd/ewrap"
)

// Kind names an error category. Kinds are indicative, not exhaustive type
// assertions — callers that care inspect Kind() on an *Error.
type Kind string

const (
	// KindIllegalState marks a lifecycle transition attempted from a state
	// that does not permit it.
	KindIllegalState Kind = "illegal-state"
	// KindConfig marks a malformed or unresolvable configuration value.
	KindConfig Kind = "config"
	// KindRetriesExhausted marks a producer submission that exhausted
	// RetriesMax attempts against a full data channel.
	KindRetriesExhausted Kind = "retries-exhausted"
	// KindProtocolMismatch marks an unexpected control-channel tag.
	KindProtocolMismatch Kind = "protocol-mismatch"
	// KindPlatformCallFailed marks a failed OS-level call (open, sync, fork).
	KindPlatformCallFailed Kind = "platform-call-failed"
	// KindAssertionFailed marks a failed internal invariant check.
	KindAssertionFailed Kind = "assertion-failed"
	// KindTooManyErrors marks an error chain that exceeded MaxChainDepth.
	KindTooManyErrors Kind = "too-many-errors"
)

// MaxChainDepth bounds how many causes an error chain may carry before the
// Internal Handler gives up and aborts its loop with a KindTooManyErrors
// terminal error.
const MaxChainDepth = 5

// Error is a chained, kinded error. It wraps github.com/hyp3rd/ewrap for
// message construction and metadata so the wire text matches the rest of
// this module's error reporting.
type Error struct {
	kind     Kind
	cause    error
	inner    error
	metadata []string
}

// NewError builds a root error of the given kind.
func NewError(kind Kind, msg string) *Error {
	return &Error{kind: kind, inner: ewrap.New(msg).WithMetadata("kind", string(kind))}
}

// WrapError chains cause under a new error of the given kind. A nil cause
// degrades to NewError.
func WrapError(kind Kind, cause error, msg string) *Error {
	if cause == nil {
		return NewError(kind, msg)
	}

	return &Error{kind: kind, cause: cause, inner: ewrap.Wrap(cause, msg).WithMetadata("kind", string(kind))}
}

// WrapErrorf is WrapError with a formatted message.
func WrapErrorf(kind Kind, cause error, format string, args ...any) *Error {
	if cause == nil {
		return NewError(kind, fmt.Sprintf(format, args...))
	}

	return &Error{kind: kind, cause: cause, inner: ewrap.Wrapf(cause, format, args...).WithMetadata("kind", string(kind))}
}

// WithMetadata attaches a diagnostic key/value pair to the error, rendered
// at the end of Error()'s message. It mirrors the chainable WithMetadata
// every ewrap call site in this module already uses, kept on *Error itself
// (rather than delegated to the wrapped ewrap error) so the root package's
// NewError/WrapError call sites can keep chaining it without this package
// depending on ewrap's exact chainable return type.
func (e *Error) WithMetadata(key string, value any) *Error {
	if e == nil {
		return e
	}

	e.metadata = append(e.metadata, fmt.Sprintf("%s=%v", key, value))

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil || e.inner == nil {
		return ""
	}

	msg := e.inner.Error()

	for _, kv := range e.metadata {
		msg += " " + kv
	}

	return msg
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As and for Depth.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// Kind returns the error's category.
func (e *Error) Kind() Kind {
	if e == nil {
		return ""
	}

	return e.kind
}

// Depth walks err's Unwrap chain and returns its length, the Go equivalent
// of bxierr_get_depth. A nil error has depth 0.
func Depth(err error) int {
	depth := 0

	for err != nil {
		depth++
		err = errors.Unwrap(err)
	}

	return depth
}

// ExceedsMaxDepth reports whether err's chain is deeper than MaxChainDepth,
// the trigger for the Internal Handler's "too many errors" abort.
func ExceedsMaxDepth(err error) bool {
	return Depth(err) > MaxChainDepth
}

// NewErrorGroup returns an accumulator for multiple independent errors,
// used by Finalize to collect every non-nil error observed during
// shutdown. Finalize returns the whole group as the cause of a single
// platform-call-failed error.
func NewErrorGroup() *ewrap.ErrorGroup {
	return ewrap.NewErrorGroup()
}
