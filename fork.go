//go:build linux && !arm64 && !riscv64 && !loong64

package corelog

import (
	"golang.org/x/sys/unix"
)

// Fork wraps the fork(2) syscall for processes that need to fork directly
// after Init. Go's runtime has no pthread_atfork equivalent: goroutines,
// channels, and the Internal Handler's goroutine do not survive a fork —
// only the calling OS thread's single remaining execution path does, and
// every other goroutine simply vanishes from the child's address space
// without running any cleanup.
//
// Fork makes that cost explicit. Pre-fork, while INITIALIZED, it issues a
// best-effort Flush so the child does not inherit records sitting
// unwritten in a data channel whose handler goroutine is about to vanish
// from its address space. It refuses to fork while a lifecycle transition
// (INITIALIZING or FINALIZING) is already in flight. Post-fork, the
// parent's state is untouched — its handler goroutine survived the fork
// in the parent process and keeps running. A child forked while
// INITIALIZED passes through FORKED and lands in FINALIZED, discarding
// every reference to the parent's channels, handler and registry, since
// none of them exist in the child's copy of the Go runtime; a child forked
// from any other state keeps that state. A forked child that wants to log
// calls Init again, which FINALIZED legally permits, to start its own
// handler.
//
// Restricted by its build constraint to architectures where
// golang.org/x/sys/unix defines a raw fork syscall number; arm64, riscv64
// and loong64 have none (only clone(2)).
func Fork() (int, error) {
	proc.mu.Lock()
	state := proc.getState()

	if state == StateInitializing || state == StateFinalizing {
		proc.mu.Unlock()

		return -1, NewError(KindIllegalState, "fork called during a lifecycle transition").
			WithMetadata("state", state.String())
	}

	proc.mu.Unlock()

	if state == StateInitialized {
		_ = Flush()
	}

	pid, _, errno := unix.RawSyscall(unix.SYS_FORK, 0, 0, 0)
	if errno != 0 {
		return -1, WrapError(KindPlatformCallFailed, errno, "fork")
	}

	if pid == 0 {
		if state == StateInitialized {
			childPostFork()
		}

		return 0, nil
	}

	//nolint:gosec // pid from fork(2) is always representable as a positive int.
	return int(pid), nil
}
