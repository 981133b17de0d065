// Package faults provides the signal-descriptor abstraction shared by both
// signal-handling regimes: synchronous faults delivered into the Internal
// Handler's select loop, and the process-wide sigaction installed by every
// other goroutine.
//
// Go's runtime, not user code, owns delivery of a SIGSEGV/SIGBUS/SIGFPE/
// SIGILL raised by the process's own faulting memory access — those crash
// the runtime directly. os/signal.Notify only reliably observes an
// externally delivered instance of those signals (for example, a `kill -SEGV`
// from another process). Both regimes below are implemented faithfully
// against that delivery model; they are not a substitute for the runtime's
// own fatal-signal handling.
package faults

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyp3rd/ewrap"
)

// SynchronousFaults is the signal subset the Internal Handler registers to
// arrive via its descriptor: SEGV, BUS, FPE, ILL.
//
//nolint:gochecknoglobals
var SynchronousFaults = []os.Signal{syscall.SIGSEGV, syscall.SIGBUS, syscall.SIGFPE, syscall.SIGILL}

// OutsideHandlerSignals is the set every other goroutine installs a
// sigaction-equivalent for: the synchronous faults plus INT and TERM.
// QUIT is deliberately excluded, leaving a user-invoked core-dump escape
// hatch.
//
//nolint:gochecknoglobals
var OutsideHandlerSignals = []os.Signal{
	syscall.SIGSEGV, syscall.SIGBUS, syscall.SIGFPE, syscall.SIGILL,
	syscall.SIGINT, syscall.SIGTERM,
}

// Descriptor is a pollable signal source: a channel that becomes readable
// when one of the registered signals is delivered, the Go equivalent of a
// signalfd.
type Descriptor struct {
	ch chan os.Signal
}

// NewDescriptor registers sigs with the runtime and returns a Descriptor
// whose channel receives them.
func NewDescriptor(sigs ...os.Signal) *Descriptor {
	ch := make(chan os.Signal, len(sigs))
	signal.Notify(ch, sigs...)

	return &Descriptor{ch: ch}
}

// Chan returns the descriptor's readable channel.
func (d *Descriptor) Chan() <-chan os.Signal {
	return d.ch
}

// Stop deregisters the descriptor's signals from the runtime.
func (d *Descriptor) Stop() {
	signal.Stop(d.ch)
}

// Describe renders a signal description suitable for the critical record
// logged on the signal path: the signal name and number. Go exposes no
// portable siginfo_t, so sender pid/uid — available in the original only
// for user-delivered (SI_USER) signals — cannot be recovered here; this is
// the documented limitation of building on os/signal rather than signalfd.
func Describe(sig os.Signal) string {
	num, ok := sig.(syscall.Signal)
	if !ok {
		return fmt.Sprintf("signal %v", sig)
	}

	return fmt.Sprintf("signal %v (%d)", sig, int(num))
}

// ResetAndReraise restores the default disposition for sig and re-raises it
// to the current process, the Go equivalent of restoring SIG_DFL and
// calling pthread_kill(self, sig). The caller unwinds from this call the
// same way the original unwinds from pthread_kill: the re-raised signal's
// default action runs immediately afterward.
func ResetAndReraise(sig os.Signal) error {
	signal.Reset(sig)

	num, ok := sig.(syscall.Signal)
	if !ok {
		return ewrap.New("cannot re-raise non-syscall signal").WithMetadata("signal", sig)
	}

	err := syscall.Kill(os.Getpid(), num)
	if err != nil {
		return ewrap.Wrap(err, "re-raising signal")
	}

	return nil
}
