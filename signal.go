package corelog

import (
	"os"
	"sync/atomic"

	"github.com/ihandler/corelog/internal/faults"
)

//nolint:gochecknoglobals
var (
	signalDescriptor *faults.Descriptor
	signalGuard      atomic.Bool
	signalDone       chan struct{}
)

// InstallSignalHandlers starts the outside-handler signal regime: every
// goroutine other than the Internal Handler's is, in effect, covered by
// this single watcher, since Go delivers a given signal instance to
// exactly one registered channel rather than to a thread-specific
// disposition. On receipt of SEGV, BUS, FPE, ILL, INT or TERM it logs a
// critical diagnostic, attempts a best-effort flush and finalize, then
// restores the signal's default disposition and re-raises it so the
// process terminates the way it would have without this package
// installed — mirroring the original's reset-and-reraise sigaction
// handler. QUIT is left alone, preserving a user-invoked core-dump escape
// hatch.
//
// The guard prevents re-entrant handling: a second signal arriving while
// the first is still being processed skips straight to reset-and-reraise
// instead of attempting another flush, the Go equivalent of the original's
// FATAL_ERROR_IN_PROGRESS check.
func InstallSignalHandlers() {
	if signalDescriptor != nil {
		return
	}

	signalDescriptor = faults.NewDescriptor(faults.OutsideHandlerSignals...)
	signalDone = make(chan struct{})

	go watchSignals(signalDescriptor, signalDone)
}

// StopSignalHandlers deregisters the outside-handler regime. Idempotent.
func StopSignalHandlers() {
	if signalDescriptor == nil {
		return
	}

	signalDescriptor.Stop()
	close(signalDone)
	signalDescriptor = nil
}

func watchSignals(descriptor *faults.Descriptor, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case sig, ok := <-descriptor.Chan():
			if !ok {
				return
			}

			handleFatalSignal(sig)
		}
	}
}

func handleFatalSignal(sig os.Signal) {
	if !signalGuard.CompareAndSwap(false, true) {
		_ = faults.ResetAndReraise(sig)

		return
	}

	diagnostic('C', "fatal signal received: "+faults.Describe(sig))

	if proc.getState() == StateInitialized {
		_ = Flush()
		_ = Finalize()
	}

	if err := faults.ResetAndReraise(sig); err != nil {
		diagnostic('E', "failed to re-raise signal: "+err.Error())
	}
}
