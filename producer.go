package corelog

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ihandler/corelog/internal/constants"
	"github.com/ihandler/corelog/internal/platform"
	"github.com/ihandler/corelog/internal/record"
)

//nolint:gochecknoglobals
var framePool = record.NewPool()

// SetThreadRank attaches rank to ctx so every Log call made with it (and
// any context derived from it) renders that rank into the RRRRR field of
// the sink line. There is no implicit per-goroutine default beyond 0: Go
// has no pthread-local storage equivalent, so callers on a goroutine that
// cares about its rank must call this explicitly once, typically at the
// top of the goroutine's function, and thread the resulting context
// through everything it calls.
func SetThreadRank(ctx context.Context, rank uint16) context.Context {
	return context.WithValue(ctx, constants.ThreadRankKey, rank)
}

// ThreadRank reads the rank attached by SetThreadRank, defaulting to 0
// when none was set.
func ThreadRank(ctx context.Context) uint16 {
	rank, ok := ctx.Value(constants.ThreadRankKey).(uint16)
	if !ok {
		return 0
	}

	return rank
}

// Log submits one record under logger at level, formatted like fmt.Sprintf
// when args is non-empty. It is a no-op, returning nil immediately, when
// the logger's threshold filters level out — the filter check happens
// before any allocation or channel interaction.
//
// Submission retries a non-blocking send against the data channel up to
// cfg.RetriesMax times with cfg.RetryDelay between attempts, then falls
// back to a blocking send bounded by cfg.FlushWaitTimeout. A record is
// never silently dropped: if that last send times out, Log returns a
// retries-exhausted error.
func Log(ctx context.Context, logger *Logger, level Level, format string, args ...any) error {
	if logger == nil {
		return NewError(KindConfig, "log called with nil logger")
	}

	if !logger.IsEnabledFor(level) {
		return nil
	}

	if proc.getState() != StateInitialized {
		return NewError(KindIllegalState, "log called outside initialized").WithMetadata("state", proc.getState().String())
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	file, line, fn := caller(2)
	tid, hasTid := platform.Tid()
	rank := ThreadRank(ctx)

	frame := framePool.Get(64 + len(message))

	err := record.EncodeInto(frame, uint8(level), time.Now(), tid, hasTid, rank, file, line, fn, logger.Name(), message)
	if err != nil {
		framePool.Put(frame)

		return WrapError(KindConfig, err, "encoding record")
	}

	return submit(frame)
}

// submit implements the retry-then-fallback enqueue discipline: RetriesMax
// non-blocking attempts spaced RetryDelay apart, then one blocking send
// that waits at most FlushWaitTimeout. If that send times out, the record
// is counted as dropped and a KindRetriesExhausted error is returned.
func submit(frame *record.Frame) error {
	for attempt := 0; attempt < proc.cfg.RetriesMax; attempt++ {
		select {
		case proc.dataCh <- frame:
			markEnqueued()

			return nil
		default:
			if proc.h != nil {
				proc.h.Metrics().Retried.Add(1)
			}

			time.Sleep(proc.cfg.RetryDelay)
		}
	}

	select {
	case proc.dataCh <- frame:
		markEnqueued()

		return nil
	case <-time.After(proc.cfg.FlushWaitTimeout):
		if proc.h != nil {
			proc.h.Metrics().Dropped.Add(1)
		}

		return NewError(KindRetriesExhausted, "data channel blocked past flush wait timeout")
	}
}

func markEnqueued() {
	if proc.h != nil {
		proc.h.Metrics().Enqueued.Add(1)
	}
}

// caller resolves the file, line and function name of the Log call skip
// frames above this one, rendering a short function name the way the
// fixed sink-line format expects (no package path, no receiver type).
func caller(skip int) (string, int, string) {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown", 0, "unknown"
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return filepath.Base(file), line, "unknown"
	}

	name := fn.Name()
	if idx := lastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}

	return file, line, name
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}

	return -1
}
