package handler

import "sync/atomic"

// Metrics holds the Internal Handler's lock-free health counters.
// Processed, Flushes and Errors are updated from the single handler
// goroutine; Enqueued, Retried and Dropped are updated by producers on the
// submission path. Queue depth is not stored here: Snapshot takes it as an
// argument, read by the caller from the data channel's length.
type Metrics struct {
	Enqueued  atomic.Uint64
	Processed atomic.Uint64
	Dropped   atomic.Uint64
	Retried   atomic.Uint64
	Flushes   atomic.Uint64
	Errors    atomic.Uint64
}

// Stats is a point-in-time, non-atomic copy of a Metrics snapshot, safe to
// hand to a caller outside the handler's goroutine.
type Stats struct {
	Enqueued   uint64
	Processed  uint64
	Dropped    uint64
	Retried    uint64
	Flushes    uint64
	Errors     uint64
	QueueDepth int
}

// Snapshot reads every counter plus the live queue depth.
func (m *Metrics) Snapshot(queueDepth int) Stats {
	return Stats{
		Enqueued:   m.Enqueued.Load(),
		Processed:  m.Processed.Load(),
		Dropped:    m.Dropped.Load(),
		Retried:    m.Retried.Load(),
		Flushes:    m.Flushes.Load(),
		Errors:     m.Errors.Load(),
		QueueDepth: queueDepth,
	}
}
