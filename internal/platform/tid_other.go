//go:build !linux

// Package platform isolates the one OS-specific fact this module needs:
// whether a kernel thread id is available for the calling goroutine's
// underlying OS thread, and what it is.
package platform

// Tid reports that no kernel thread id is available on this platform,
// triggering the degraded PPPPP:RRRRR sink-line form.
func Tid() (uint32, bool) {
	return 0, false
}
