//go:build linux

// Package platform isolates the one OS-specific fact this module needs:
// whether a kernel thread id is available for the calling goroutine's
// underlying OS thread, and what it is.
package platform

import "golang.org/x/sys/unix"

// Tid returns the calling OS thread's kernel thread id. Go goroutines can
// migrate between OS threads between calls, so this value is a snapshot
// valid only for the call that captured it — the same caveat the original
// documents for its cached tid.
func Tid() (uint32, bool) {
	//nolint:gosec // gettid() return is always a small positive value.
	return uint32(unix.Gettid()), true
}
