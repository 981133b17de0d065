package corelog

import "time"

const (
	// DefaultPollTimeout bounds how long the Internal Handler's select loop
	// waits before issuing a pacing flush, the Go equivalent of the
	// original's 500 ms zmq_poll timeout.
	DefaultPollTimeout = 500 * time.Millisecond
	// RetriesMax is the number of non-blocking enqueue retries a producer
	// attempts against a full data channel before falling back to a
	// blocking send.
	RetriesMax = 3
	// RetryDelay is the fixed delay between enqueue retries.
	RetryDelay = 500 * time.Microsecond
	// DefaultFlushWaitTimeout bounds how long Flush blocks for the
	// handler's flushed! reply before reporting a timeout.
	DefaultFlushWaitTimeout = 5 * time.Second
	// DefaultDataChannelSize is the default buffered capacity of the data
	// channel between producers and the Internal Handler.
	DefaultDataChannelSize = 1024
	// DefaultLevel is the value DefaultConfig puts in Config.Level.
	DefaultLevel = Info
)

// Config holds the Internal Handler's tunables and the sink selector. It is
// deliberately small: the subsystem has one sink, one handler, and no
// runtime reconfiguration of either after Init.
type Config struct {
	// ProgramName is the opaque program identifier rendered into each sink line.
	ProgramName string
	// Sink selects the durable output: "-" for stdout, "+" for stderr,
	// anything else is a file path opened O_WRONLY|O_CREATE|O_APPEND.
	Sink string
	// Level is a filtering threshold carried with the configuration. Init
	// does not apply it: every Register call passes its own threshold.
	Level Level
	// PollTimeout bounds the Internal Handler's select loop pacing flush.
	PollTimeout time.Duration
	// RetriesMax bounds producer-side enqueue retries against a full data channel.
	RetriesMax int
	// RetryDelay is the fixed delay between producer-side enqueue retries.
	RetryDelay time.Duration
	// FlushWaitTimeout bounds how long Flush blocks for a reply.
	FlushWaitTimeout time.Duration
	// DataChannelSize is the buffered capacity of the data channel.
	DataChannelSize int
	// EnableSelfLog turns on self-log lines written straight to the sink:
	// an info line when Init completes, plus the Internal Handler's own
	// processing-error and fault lines.
	EnableSelfLog bool
}

// DefaultConfig returns the subsystem's default configuration: sink is
// standard output, filtering threshold is Info, and the handler's pacing
// and retry tunables match the values named in the component design.
func DefaultConfig() Config {
	return Config{
		ProgramName:      "",
		Sink:             "-",
		Level:            DefaultLevel,
		PollTimeout:      DefaultPollTimeout,
		RetriesMax:       RetriesMax,
		RetryDelay:       RetryDelay,
		FlushWaitTimeout: DefaultFlushWaitTimeout,
		DataChannelSize:  DefaultDataChannelSize,
		EnableSelfLog:    false,
	}
}
