// Package corelog implements the core of a high-throughput, low-contention
// logging subsystem for multi-goroutine processes.
//
// Producer goroutines format records locally and hand them to a single
// Internal Handler goroutine through a process-wide data channel. The
// handler reframes each record, renders it to the fixed sink line format,
// and appends it to a durable sink. A second control channel carries
// readiness handshakes, flush requests and shutdown requests; a third input
// delivers fatal-signal notifications into the same select loop.
//
// Call Init once to start the subsystem, Log to submit records through a
// registered Logger, Flush to block until everything submitted so far has
// reached the sink, and Finalize to shut the handler down. The package also
// exposes Fork for processes that call the fork(2) syscall directly, since
// the handler goroutine and its channels do not survive a fork.
//
// Always call Sync() or Finalize() before process exit to avoid losing
// buffered-but-unwritten records; best-effort flush on shutdown is the
// contract, not exactly-once delivery.
package corelog
