// Package constants holds the context key types shared across the module's
// packages. A private key type, rather than a string, prevents collisions
// with context values set by unrelated packages sharing the same context.Context.
package constants

// threadRankKey is the context key under which a producer goroutine's
// thread rank is stored. Go has no pthread-local storage equivalent; a
// context value carried by the caller is the idiomatic substitute, at the
// cost of requiring explicit propagation instead of implicit inheritance.
type threadRankKey struct{}

// ThreadRankKey is the context key for a goroutine's thread rank.
//
//nolint:gochecknoglobals
var ThreadRankKey = threadRankKey{}
