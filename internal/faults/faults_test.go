package faults

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynchronousFaultsContents(t *testing.T) {
	assert.Contains(t, SynchronousFaults, syscall.Signal(syscall.SIGSEGV))
	assert.Contains(t, SynchronousFaults, syscall.Signal(syscall.SIGBUS))
	assert.Contains(t, SynchronousFaults, syscall.Signal(syscall.SIGFPE))
	assert.Contains(t, SynchronousFaults, syscall.Signal(syscall.SIGILL))
	assert.Len(t, SynchronousFaults, 4)
}

func TestOutsideHandlerSignalsExcludesQuit(t *testing.T) {
	assert.Contains(t, OutsideHandlerSignals, syscall.Signal(syscall.SIGINT))
	assert.Contains(t, OutsideHandlerSignals, syscall.Signal(syscall.SIGTERM))
	assert.NotContains(t, OutsideHandlerSignals, syscall.Signal(syscall.SIGQUIT))
}

func TestDescribeKnownSignal(t *testing.T) {
	desc := Describe(syscall.SIGTERM)
	assert.Contains(t, desc, "15")
}

func TestDescriptorRegistersAndStops(t *testing.T) {
	d := NewDescriptor(syscall.SIGUSR1)
	defer d.Stop()

	assert.NotNil(t, d.Chan())
}
