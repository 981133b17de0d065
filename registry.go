package corelog

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Logger is a named filter consumed as a gate before a record is enqueued.
// Its level is read via an atomic field so IsEnabledFor never blocks a
// producer on the registry mutex; a torn read yields at worst one
// mis-filtered record, which is acceptable.
type Logger struct {
	name  string
	level atomic.Uint32
}

// Name returns the logger's immutable name.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the logger's current threshold.
func (l *Logger) Level() Level {
	//nolint:gosec // Level is a 12-value enum, never large enough to overflow uint32->uint8.
	return Level(l.level.Load())
}

// SetLevel updates the logger's threshold. Safe to call concurrently with
// IsEnabledFor from any goroutine.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(uint32(level))
}

// IsEnabledFor reports whether a record at the given level should be
// emitted by this logger. Callable without locking.
func (l *Logger) IsEnabledFor(level Level) bool {
	return level.Enabled(l.Level())
}

// Rule is one entry of a configure() call: loggers whose name has this
// prefix get this level. An empty prefix matches every logger.
type Rule struct {
	Prefix string
	Level  Level
}

// Registry holds the process-wide set of registered loggers. All mutating
// operations are serialized by a single mutex; IsEnabledFor on an individual
// Logger is lock-free.
type Registry struct {
	mu      sync.Mutex
	loggers []*Logger
}

// NewRegistry returns an empty registry. Most callers use the package-level
// Register/Configure/Snapshot functions against the process-wide registry
// instead of constructing one directly; NewRegistry exists for tests that
// want an isolated instance.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a new logger under name at the given level. Names are
// not required to be unique: duplicate registrations produce duplicate
// entries that configure() will reconfigure together, which is documented
// behavior, not an error.
func (r *Registry) Register(name string, level Level) *Logger {
	logger := &Logger{name: name}
	logger.SetLevel(level)

	r.mu.Lock()
	r.loggers = append(r.loggers, logger)
	r.mu.Unlock()

	return logger
}

// Unregister removes logger from the registry. Callers are responsible for
// only calling this after Finalize, per the lifecycle contract; the
// registry itself does not track lifecycle state.
func (r *Registry) Unregister(logger *Logger) {
	if logger == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, candidate := range r.loggers {
		if candidate == logger {
			last := len(r.loggers) - 1
			r.loggers[i] = r.loggers[last]
			r.loggers[last] = nil
			r.loggers = r.loggers[:last]

			return
		}
	}
}

// Snapshot returns a stable copy of the currently registered loggers.
func (r *Registry) Snapshot() []*Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Logger, len(r.loggers))
	copy(out, r.loggers)

	return out
}

// Configure applies an ordered list of prefix/level rules. For each
// registered logger, the last rule in the list whose prefix matches the
// logger's name wins; this is O(n*m) in loggers and rules, acceptable
// because reconfiguration is rare.
func (r *Registry) Configure(rules []Rule) {
	r.mu.Lock()
	loggers := make([]*Logger, len(r.loggers))
	copy(loggers, r.loggers)
	r.mu.Unlock()

	for _, logger := range loggers {
		for _, rule := range rules {
			if strings.HasPrefix(logger.name, rule.Prefix) {
				logger.SetLevel(rule.Level)
			}
		}
	}
}

//nolint:gochecknoglobals // the registry is process-wide by necessity: signal and fork
// handlers carry no context parameter to thread a registry instance through.
var processRegistry = NewRegistry()

// Register adds logger to the process-wide registry.
func Register(name string, level Level) *Logger {
	return processRegistry.Register(name, level)
}

// Unregister removes logger from the process-wide registry. Legal only
// after Finalize; Finalize itself clears the registry as part of shutdown.
func Unregister(logger *Logger) {
	processRegistry.Unregister(logger)
}

// Snapshot returns every logger currently registered process-wide.
func Snapshot() []*Logger {
	return processRegistry.Snapshot()
}

// Configure applies rules to the process-wide registry.
func Configure(rules []Rule) {
	processRegistry.Configure(rules)
}
