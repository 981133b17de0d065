// Package sink implements the durable output the Internal Handler appends
// rendered lines to: standard output, standard error, or an append-mode
// file, selected by the opaque sink string the spec's external interfaces
// describe.
package sink

import (
	"errors"
	"os"
	"syscall"

	"github.com/hyp3rd/ewrap"
)

// Writer is the capability the Internal Handler holds once: write bytes,
// durably flush, release resources. No per-record virtual dispatch sits
// above it — the handler calls these three methods directly.
type Writer interface {
	Write(p []byte) (int, error)
	// Sync durably flushes, treating "not supported" on this sink
	// (EROFS, EINVAL on stdout/stderr) as success rather than error.
	Sync() error
	Close() error
}

const filePermissions = 0o644

// Open resolves the opaque sink string into a Writer: "-" maps to standard
// output, "+" to standard error, anything else to an append-mode file
// opened O_WRONLY|O_CREATE|O_APPEND.
func Open(path string) (Writer, error) {
	switch path {
	case "-":
		return &stdWriter{f: os.Stdout}, nil
	case "+":
		return &stdWriter{f: os.Stderr}, nil
	case "":
		return nil, ewrap.New("sink path cannot be empty")
	default:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, filePermissions)
		if err != nil {
			return nil, ewrap.Wrapf(err, "opening sink %s", path)
		}

		return &fileWriter{f: f}, nil
	}
}

// stdWriter wraps stdout/stderr. Sync and Close are no-ops: the process
// owns these descriptors, not the handler, and fsync on a terminal or pipe
// is a documented "not supported" case treated as success.
type stdWriter struct {
	f *os.File
}

func (w *stdWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		return n, ewrap.Wrap(err, "writing to sink")
	}

	return n, nil
}

func (*stdWriter) Sync() error {
	return nil
}

func (*stdWriter) Close() error {
	return nil
}

// fileWriter wraps a regular append-mode file.
type fileWriter struct {
	f *os.File
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		return n, ewrap.Wrap(err, "writing to sink")
	}

	return n, nil
}

func (w *fileWriter) Sync() error {
	err := w.f.Sync()
	if err == nil {
		return nil
	}

	if errors.Is(err, syscall.EROFS) || errors.Is(err, syscall.EINVAL) {
		return nil
	}

	return ewrap.Wrap(err, "syncing sink")
}

func (w *fileWriter) Close() error {
	err := w.f.Close()
	if err != nil {
		return ewrap.Wrap(err, "closing sink")
	}

	return nil
}
