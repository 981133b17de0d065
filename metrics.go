package corelog

// Stats is a point-in-time snapshot of the Internal Handler's health
// counters, exposed for callers that want to watch for a backed-up data
// channel or a rising error count without tailing the sink itself.
type Stats struct {
	Enqueued   uint64
	Processed  uint64
	Dropped    uint64
	Retried    uint64
	Flushes    uint64
	Errors     uint64
	QueueDepth int
}

// HandlerStats returns the running handler's current counters. Legal only
// while INITIALIZED; outside that window it returns the zero value.
func HandlerStats() Stats {
	proc.mu.Lock()
	h := proc.h
	dataCh := proc.dataCh
	state := proc.getState()
	proc.mu.Unlock()

	if state != StateInitialized || h == nil {
		return Stats{}
	}

	snap := h.Metrics().Snapshot(len(dataCh))

	return Stats{
		Enqueued:   snap.Enqueued,
		Processed:  snap.Processed,
		Dropped:    snap.Dropped,
		Retried:    snap.Retried,
		Flushes:    snap.Flushes,
		Errors:     snap.Errors,
		QueueDepth: snap.QueueDepth,
	}
}
