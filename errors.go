package corelog

import (
	"github.com/hyp3rd/ewrap"

	"github.com/ihandler/corelog/internal/corerr"
)

// Kind names an error category. Kinds are indicative, not exhaustive type
// assertions — callers that care inspect Kind() on an *Error.
type Kind = corerr.Kind

const (
	// KindIllegalState marks a lifecycle transition attempted from a state
	// that does not permit it.
	KindIllegalState = corerr.KindIllegalState
	// KindConfig marks a malformed or unresolvable configuration value.
	KindConfig = corerr.KindConfig
	// KindRetriesExhausted marks a producer submission that exhausted
	// RetriesMax attempts against a full data channel.
	KindRetriesExhausted = corerr.KindRetriesExhausted
	// KindProtocolMismatch marks an unexpected control-channel tag.
	KindProtocolMismatch = corerr.KindProtocolMismatch
	// KindPlatformCallFailed marks a failed OS-level call (open, sync, fork).
	KindPlatformCallFailed = corerr.KindPlatformCallFailed
	// KindAssertionFailed marks a failed internal invariant check.
	KindAssertionFailed = corerr.KindAssertionFailed
	// KindTooManyErrors marks an error chain that exceeded MaxChainDepth.
	KindTooManyErrors = corerr.KindTooManyErrors
)

// MaxChainDepth bounds how many causes an error chain may carry before the
// Internal Handler gives up and aborts its loop with a KindTooManyErrors
// terminal error. Shared with internal/handler via internal/corerr, which
// is where the handler's abort check actually runs.
const MaxChainDepth = corerr.MaxChainDepth

// Error is a chained, kinded error, aliased from internal/corerr so the
// handler package (which the root package imports, and so cannot be
// imported back) can build and check the same chains this package's
// public API returns.
type Error = corerr.Error

// NewError builds a root error of the given kind.
func NewError(kind Kind, msg string) *Error {
	return corerr.NewError(kind, msg)
}

// WrapError chains cause under a new error of the given kind. A nil cause
// degrades to NewError.
func WrapError(kind Kind, cause error, msg string) *Error {
	return corerr.WrapError(kind, cause, msg)
}

// WrapErrorf is WrapError with a formatted message.
func WrapErrorf(kind Kind, cause error, format string, args ...any) *Error {
	return corerr.WrapErrorf(kind, cause, format, args...)
}

// Depth walks err's Unwrap chain and returns its length. A nil error has
// depth 0.
func Depth(err error) int {
	return corerr.Depth(err)
}

// ExceedsMaxDepth reports whether err's chain is deeper than MaxChainDepth.
func ExceedsMaxDepth(err error) bool {
	return corerr.ExceedsMaxDepth(err)
}

// NewErrorGroup returns an accumulator for multiple independent errors,
// used by Finalize to collect every non-nil error it observed during
// shutdown. Finalize returns the whole group as the cause of a single
// platform-call-failed error.
func NewErrorGroup() *ewrap.ErrorGroup {
	return corerr.NewErrorGroup()
}
