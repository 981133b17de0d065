// Package handler implements the Internal Handler: the single goroutine
// that owns the sink and drains the data channel every producer writes to.
// Its select loop is modeled directly on an async writer's drain loop —
// one case per input, a pacing timeout standing in for a bounded poll, and
// a single write attempt per line with a stderr fallback — generalized to the frame codec,
// control tags and error-chain-depth discipline this subsystem's external
// interfaces describe.
package handler

import (
	"context"
	"os"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/ihandler/corelog/internal/corerr"
	"github.com/ihandler/corelog/internal/faults"
	"github.com/ihandler/corelog/internal/record"
	"github.com/ihandler/corelog/internal/sink"
)

// Control tags exchanged between the lifecycle controller ("BC", the
// back-channel caller) and the Internal Handler ("IH") over the control
// channel. Strings, not an enum, because they cross a channel boundary the
// same way the original's zmq control messages did and are useful verbatim
// in diagnostics.
const (
	TagReadyQuery   = "BC->IH: ready?"
	TagReadyReply   = "IH->BC: ready!"
	TagExitQuery    = "BC->IH: exit?"
	TagFlushQuery   = "BC->IH: flush?"
	TagFlushedReply = "IH->BC: flushed!"
)

// RenderLevelChar maps a record's numeric level to its one-byte sink-line
// prefix. Supplied by the caller rather than imported from the root
// package, which would otherwise import this package and close an import
// cycle.
type RenderLevelChar func(level uint8) byte

// SelfLogger emits the handler's own diagnostics (processing errors, a
// fault delivered while draining) through the same sink,
// bypassing the data channel since the handler is both producer and
// consumer of its own self-log records. Nil disables self-logging.
type SelfLogger func(levelChar byte, message string)

// Config carries everything the handler needs for its lifetime. It does
// not own the channels themselves: the lifecycle controller creates and
// holds those so it can close or continue writing to them independently of
// the handler's goroutine state.
type Config struct {
	Writer      sink.Writer
	Program     string
	Pid         int
	PollTimeout time.Duration
	LevelChar   RenderLevelChar
	SelfLog     SelfLogger
	// Faults, when non-nil, is watched alongside the data and control
	// channels: a synchronous fault delivered while the handler is
	// draining ends Run with a terminal error after one last self-log
	// line, mirroring the original's in-handler signalfd integration.
	Faults *faults.Descriptor
	// Release, when non-nil, is called once a frame's lines have all
	// been written (or decoding failed), returning it to the
	// producer-side pool.
	Release func(*record.Frame)
}

// Handler drains a data channel into a sink and answers control-channel
// requests. One instance exists per process lifetime.
type Handler struct {
	cfg      Config
	metrics  Metrics
	errChain error
}

// New builds a Handler. It does not start the select loop; call Run in its
// own goroutine.
func New(cfg Config) *Handler {
	return &Handler{cfg: cfg}
}

// Metrics returns the handler's live counters, safe to read concurrently
// with Run.
func (h *Handler) Metrics() *Metrics {
	return &h.metrics
}

// Run drains dataCh and controlCh until a TagExitQuery is received, ctx is
// canceled, or a fault arrives on the configured descriptor. It replies on
// replyCh to ready and flush requests, and returns the terminal error, if
// any, that caused it to stop — nil on a clean shutdown.
//
// Both the flush? path and the exit? path drain every frame already
// sitting in dataCh before syncing or returning: the data channel is
// buffered and the control channel is not, so without an explicit drain a
// flush?/exit? request can be serviced while a record submitted strictly
// before it is still waiting in the channel, violating the promise that
// Flush/Finalize only return once everything submitted so far has reached
// the sink.
func (h *Handler) Run(ctx context.Context, dataCh <-chan *record.Frame, controlCh <-chan string, replyCh chan<- string) error {
	var faultCh <-chan os.Signal
	if h.cfg.Faults != nil {
		faultCh = h.cfg.Faults.Chan()
	}

	ticker := time.NewTicker(h.cfg.PollTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return h.flush(dataCh)

		case frame, ok := <-dataCh:
			if !ok {
				return h.flush(dataCh)
			}

			if abort := h.process(frame); abort != nil {
				return abort
			}

		case tag, ok := <-controlCh:
			if !ok {
				return h.flush(dataCh)
			}

			switch tag {
			case TagReadyQuery:
				replyCh <- TagReadyReply
			case TagFlushQuery:
				if abort := h.flush(dataCh); abort != nil {
					return abort
				}

				replyCh <- TagFlushedReply
			case TagExitQuery:
				return h.flush(dataCh)
			default:
				h.metrics.Errors.Add(1)

				return ewrap.New("unexpected control tag").WithMetadata("tag", tag)
			}

		case sig := <-faultCh:
			h.logSelf('C', "fatal signal delivered while draining: "+faults.Describe(sig))
			_ = h.flush(dataCh)

			return ewrap.New("fatal signal delivered to internal handler").WithMetadata("signal", faults.Describe(sig))

		case <-ticker.C:
			if abort := h.flush(dataCh); abort != nil {
				return abort
			}
		}
	}
}

// drain processes every frame already buffered in dataCh without blocking,
// the Go equivalent of the teacher's drainMessages loop over msgCh: a
// non-blocking receive with a default case stops as soon as the channel
// is empty rather than waiting for a sender that may never come.
func (h *Handler) drain(dataCh <-chan *record.Frame) error {
	for {
		select {
		case frame, ok := <-dataCh:
			if !ok {
				return nil
			}

			if abort := h.process(frame); abort != nil {
				return abort
			}
		default:
			return nil
		}
	}
}

// flush drains dataCh and then durably syncs the sink, in that order, so a
// flush?/exit? request always observes every record enqueued strictly
// before it. A sync failure is recorded like any other write failure and
// can itself push the error chain past MaxChainDepth.
func (h *Handler) flush(dataCh <-chan *record.Frame) error {
	if abort := h.drain(dataCh); abort != nil {
		return abort
	}

	if err := h.cfg.Writer.Sync(); err != nil {
		if abort := h.recordError(err); abort != nil {
			return abort
		}
	}

	h.metrics.Flushes.Add(1)

	return nil
}

// process renders and writes every line of one frame, in message-segment
// order, then advances the handler's counters. A non-nil return is the
// terminal too-many-errors abort; process itself never returns a plain
// write or decode error, those are only recorded against the chain.
func (h *Handler) process(frame *record.Frame) error {
	defer h.release(frame)

	header, file, fn, loggerName, message, err := record.Decode(frame.Data)
	if err != nil {
		return h.recordError(err)
	}

	levelChar := byte('?')
	if h.cfg.LevelChar != nil {
		levelChar = h.cfg.LevelChar(header.Level)
	}

	for _, segment := range record.SplitMessage(message) {
		line := record.RenderLine(header, levelChar, h.cfg.Pid, h.cfg.Program, file, fn, loggerName, segment)

		n, werr := h.cfg.Writer.Write(line)
		if werr != nil {
			writeFallback("write to sink failed: "+werr.Error(), line)

			if abort := h.recordError(werr); abort != nil {
				return abort
			}

			return nil
		}

		if n < len(line) {
			writeFallback("short write to sink, line may be truncated", line)
		}
	}

	h.metrics.Processed.Add(1)

	return nil
}

// recordError tracks a non-fatal processing error against the handler's
// error chain. Once that chain's depth exceeds MaxChainDepth it returns a
// terminal KindTooManyErrors error for the caller to abort Run with,
// mirroring the original's MAX_DEPTH_ERR discipline; otherwise it returns
// nil and the handler keeps draining.
func (h *Handler) recordError(err error) error {
	h.metrics.Errors.Add(1)
	h.errChain = corerr.WrapError(corerr.KindPlatformCallFailed, h.errChain, err.Error())
	h.logSelf('E', "handler error: "+err.Error())

	if corerr.ExceedsMaxDepth(h.errChain) {
		return corerr.WrapError(corerr.KindTooManyErrors, h.errChain, "handler error chain exceeded max depth")
	}

	return nil
}

func (h *Handler) release(frame *record.Frame) {
	if h.cfg.Release != nil {
		h.cfg.Release(frame)
	}
}

func (h *Handler) logSelf(levelChar byte, message string) {
	if h.cfg.SelfLog != nil {
		h.cfg.SelfLog(levelChar, message)
	}
}
