package handler

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// stderrIsTerminal gates the diagnostic fallback's coloring, not whether
// it fires: the fallback always writes to stderr, coloring is purely
// cosmetic for an interactive terminal.
//
//nolint:gochecknoglobals
var stderrIsTerminal = isatty.IsTerminal(os.Stderr.Fd())

const (
	fallbackColor = "\033[33m"
	fallbackReset = "\033[0m"
)

// writeFallback writes an explanatory note and the original, possibly
// truncated, sink line to standard error. It exists for the one case the
// handler cannot route through its normal self-log path: a write to the
// sink itself came back short or failed, so the sink can no longer be
// trusted to carry the explanation either.
func writeFallback(note string, line []byte) {
	if stderrIsTerminal {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", fallbackColor, note, fallbackReset)
	} else {
		fmt.Fprintln(os.Stderr, note)
	}

	_, _ = os.Stderr.Write(line)
}
