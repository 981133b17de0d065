package corelog

import (
	"strings"

	"github.com/hyp3rd/ewrap"
)

// Level is one of the twelve ordered severities a Record can carry. Numeric
// values increase as severity decreases, so a record is emitted only when
// its Level is numerically <= the logger's configured threshold.
type Level uint8

const (
	// Panic is the most severe level.
	Panic Level = iota
	// Alert is for conditions that must be corrected immediately.
	Alert
	// Critical is for critical conditions.
	Critical
	// Error is for error conditions.
	Error
	// Warning is for warning conditions.
	Warning
	// Notice is for normal but significant conditions.
	Notice
	// Output is for conditions that are part of the program's normal output.
	Output
	// Info is for informational messages.
	Info
	// Debug is for debug-level messages.
	Debug
	// Fine is for finer-grained debug messages than Debug.
	Fine
	// Trace is for tracing program execution.
	Trace
	// Lowest is the least severe level; only a logger whose threshold is
	// Lowest emits it.
	Lowest
)

// levelNames holds the canonical lowercase name for each level, in severity order.
//
//nolint:gochecknoglobals
var levelNames = [...]string{
	Panic: "panic", Alert: "alert", Critical: "critical", Error: "error",
	Warning: "warning", Notice: "notice", Output: "output", Info: "info",
	Debug: "debug", Fine: "fine", Trace: "trace", Lowest: "lowest",
}

// levelChars holds the one-byte sink-line prefix for each level, in severity order.
//
//nolint:gochecknoglobals
var levelChars = [...]byte{
	Panic: 'P', Alert: 'A', Critical: 'C', Error: 'E',
	Warning: 'W', Notice: 'N', Output: 'O', Info: 'I',
	Debug: 'D', Fine: 'F', Trace: 'T', Lowest: 'L',
}

// levelAliases maps alternate spellings accepted by ParseLevel onto the
// canonical name.
//
//nolint:gochecknoglobals
var levelAliases = map[string]string{
	"emergency": "panic",
	"crit":      "critical",
	"err":       "error",
	"warn":      "warning",
	"out":       "output",
}

// IsValid reports whether l is one of the twelve defined levels.
func (l Level) IsValid() bool {
	return l <= Lowest
}

// String returns the canonical lowercase name of the level.
func (l Level) String() string {
	if !l.IsValid() {
		return "unknown"
	}

	return levelNames[l]
}

// Char returns the single-byte sink-line prefix for the level.
func (l Level) Char() byte {
	if !l.IsValid() {
		return '?'
	}

	return levelChars[l]
}

// Enabled reports whether a record at level l should be emitted by a logger
// configured at threshold. It is the filter predicate behind
// Logger.IsEnabledFor.
func (l Level) Enabled(threshold Level) bool {
	return l <= threshold
}

// ParseLevel resolves a level name, accepting the documented aliases
// (emergency, crit, err, warn, out) in addition to the canonical names.
// Matching is case-insensitive. An unknown name is reported as a config error.
func ParseLevel(name string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	if canonical, ok := levelAliases[normalized]; ok {
		normalized = canonical
	}

	for level, candidate := range levelNames {
		if candidate == normalized {
			return Level(level), nil
		}
	}

	return 0, NewError(KindConfig, "unknown log level name").WithMetadata("name", name)
}
