package corelog

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ihandler/corelog/internal/faults"
	"github.com/ihandler/corelog/internal/handler"
	"github.com/ihandler/corelog/internal/record"
	"github.com/ihandler/corelog/internal/sink"
)

// State is one of the subsystem's lifecycle states. Transitions follow a
// fixed state machine: UNSET only ever moves to INITIALIZING, a fork moves
// a child through FORKED and immediately on to FINALIZED (see
// childPostFork), and any transition attempted from ILLEGAL stays ILLEGAL.
type State uint8

const (
	StateUnset State = iota
	StateInitializing
	StateInitialized
	StateFinalizing
	StateFinalized
	StateForked
	StateIllegal
)

//nolint:gochecknoglobals
var stateNames = [...]string{
	StateUnset: "unset", StateInitializing: "initializing", StateInitialized: "initialized",
	StateFinalizing: "finalizing", StateFinalized: "finalized", StateForked: "forked",
	StateIllegal: "illegal",
}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return "illegal"
	}

	return stateNames[s]
}

// controller is the process-wide lifecycle instance: the data/control
// channels, the handler goroutine, and the state machine gating every
// operation against them.
type controller struct {
	mu       sync.Mutex
	state    atomic.Uint32
	cfg      Config
	dataCh   chan *record.Frame
	controlCh chan string
	replyCh  chan string
	cancel   context.CancelFunc
	done     chan struct{}
	h        *handler.Handler
	writer   sink.Writer
	faultsD  *faults.Descriptor
}

//nolint:gochecknoglobals
var proc = &controller{}

func (c *controller) getState() State {
	//nolint:gosec // State is a 7-value enum.
	return State(c.state.Load())
}

func (c *controller) setState(s State) {
	c.state.Store(uint32(s))
}

// Init starts the subsystem: opens the sink, starts the Internal Handler
// goroutine, and blocks until the handler answers a ready? handshake. It
// is legal only from UNSET or FINALIZED; any other starting state is an
// illegal-state error, and Init marks the controller ILLEGAL rather than
// leaving it half-started.
func Init(cfg Config) error {
	proc.mu.Lock()
	defer proc.mu.Unlock()

	switch proc.getState() {
	case StateUnset, StateFinalized:
	default:
		proc.setState(StateIllegal)

		return NewError(KindIllegalState, "init called outside unset/finalized").
			WithMetadata("state", proc.getState().String())
	}

	proc.setState(StateInitializing)

	w, err := sink.Open(cfg.Sink)
	if err != nil {
		proc.setState(StateIllegal)

		return WrapError(KindPlatformCallFailed, err, "opening sink")
	}

	proc.cfg = cfg
	proc.writer = w
	proc.dataCh = make(chan *record.Frame, cfg.DataChannelSize)
	proc.controlCh = make(chan string)
	proc.replyCh = make(chan string)
	proc.faultsD = faults.NewDescriptor(faults.SynchronousFaults...)

	ctx, cancel := context.WithCancel(context.Background())
	proc.cancel = cancel
	proc.done = make(chan struct{})

	var selfLog handler.SelfLogger
	if cfg.EnableSelfLog {
		selfLog = selfLogFunc
	}

	proc.h = handler.New(handler.Config{
		Writer:      w,
		Program:     cfg.ProgramName,
		Pid:         os.Getpid(),
		PollTimeout: cfg.PollTimeout,
		LevelChar:   func(level uint8) byte { return Level(level).Char() },
		SelfLog:     selfLog,
		Faults:      proc.faultsD,
		Release:     framePool.Put,
	})

	h, dataCh, controlCh, replyCh, done := proc.h, proc.dataCh, proc.controlCh, proc.replyCh, proc.done

	go func() {
		defer close(done)

		_ = h.Run(ctx, dataCh, controlCh, replyCh)
	}()

	controlCh <- handler.TagReadyQuery
	<-replyCh

	proc.setState(StateInitialized)

	if cfg.EnableSelfLog {
		selfLogFunc('I', "initialization complete")
	}

	return nil
}

// Flush blocks until every record submitted so far has reached the sink,
// or until cfg.FlushWaitTimeout elapses. Legal only from INITIALIZED.
func Flush() error {
	proc.mu.Lock()
	state := proc.getState()
	proc.mu.Unlock()

	if state != StateInitialized {
		return NewError(KindIllegalState, "flush called outside initialized").WithMetadata("state", state.String())
	}

	select {
	case proc.controlCh <- handler.TagFlushQuery:
	case <-time.After(proc.cfg.FlushWaitTimeout):
		return NewError(KindRetriesExhausted, "flush request timed out")
	}

	select {
	case reply := <-proc.replyCh:
		if reply != handler.TagFlushedReply {
			return NewError(KindProtocolMismatch, "unexpected reply to flush?").WithMetadata("reply", reply)
		}

		return nil
	case <-time.After(proc.cfg.FlushWaitTimeout):
		return NewError(KindRetriesExhausted, "flush reply timed out")
	}
}

// Sync is an alias for Flush, named for callers that think of it as a
// durability barrier rather than a pacing request.
func Sync() error {
	return Flush()
}

// Finalize drains and stops the Internal Handler, closes the sink, and
// returns to FINALIZED. Legal only from INITIALIZED; any error encountered
// while tearing down is accumulated rather than short-circuited, so a
// failed sink close doesn't prevent the goroutine and channels from being
// released.
func Finalize() error {
	proc.mu.Lock()
	defer proc.mu.Unlock()

	if proc.getState() != StateInitialized {
		return NewError(KindIllegalState, "finalize called outside initialized").
			WithMetadata("state", proc.getState().String())
	}

	proc.setState(StateFinalizing)

	group := NewErrorGroup()

	select {
	case proc.controlCh <- handler.TagExitQuery:
	case <-time.After(proc.cfg.FlushWaitTimeout):
		group.Add(NewError(KindRetriesExhausted, "exit request timed out"))
	}

	select {
	case <-proc.done:
	case <-time.After(proc.cfg.FlushWaitTimeout):
		group.Add(NewError(KindRetriesExhausted, "handler did not exit in time"))
	}

	if proc.cancel != nil {
		proc.cancel()
	}

	if proc.faultsD != nil {
		proc.faultsD.Stop()
	}

	if err := proc.writer.Close(); err != nil {
		group.Add(err)
	}

	processRegistry = NewRegistry()
	proc.setState(StateFinalized)

	if group.HasErrors() {
		return WrapError(KindPlatformCallFailed, group, "finalize encountered errors")
	}

	return nil
}

// childPostFork runs in a freshly forked child, immediately after the
// fork(2) call returns 0. It transitions FORKED -> FINALIZED per §4.7: the
// child's copy of the parent's handler goroutine, channels and fault
// descriptor do not exist — Go does not clone goroutines across fork —
// so every reference to them is discarded rather than reused. The child
// is left exactly where a never-yet-initialized process would be after a
// clean Finalize, matching invariant #6 (a forked child is in FINALIZED
// until it calls Init).
func childPostFork() {
	proc.mu.Lock()
	defer proc.mu.Unlock()

	proc.setState(StateForked)

	proc.cancel = nil
	proc.dataCh = nil
	proc.controlCh = nil
	proc.replyCh = nil
	proc.done = nil
	proc.h = nil
	proc.writer = nil
	proc.faultsD = nil

	processRegistry = NewRegistry()

	proc.setState(StateFinalized)
}

// selfLogFunc renders and writes one Internal Handler self-log line
// directly to the sink, bypassing the data channel: the handler cannot be
// both the producer and the consumer of its own backlog without risking
// deadlock against a full channel.
func selfLogFunc(levelChar byte, message string) {
	now := time.Now()
	header := record.Header{Level: 0, Timestamp: now, HasTid: false, Rank: 0, Line: 0}
	line := record.RenderLine(header, levelChar, os.Getpid(), proc.cfg.ProgramName, "", "", "corelog.handler", message)
	_, _ = proc.writer.Write(line)
}
