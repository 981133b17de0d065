package tuning

import (
	"time"

	"github.com/ihandler/corelog"
)

type rawConfig struct {
	ProgramName      string `mapstructure:"program_name"      yaml:"program_name"`
	Sink             string `mapstructure:"sink"              yaml:"sink"`
	Level            string `mapstructure:"level"             yaml:"level"`
	PollTimeoutMS    *int   `mapstructure:"poll_timeout_ms"    yaml:"poll_timeout_ms"`
	RetriesMax       *int   `mapstructure:"retries_max"        yaml:"retries_max"`
	RetryDelayUS     *int   `mapstructure:"retry_delay_us"     yaml:"retry_delay_us"`
	FlushWaitTimeoutS *int  `mapstructure:"flush_wait_timeout_s" yaml:"flush_wait_timeout_s"`
	DataChannelSize  *int   `mapstructure:"data_channel_size"  yaml:"data_channel_size"`
	EnableSelfLog    *bool  `mapstructure:"enable_self_log"    yaml:"enable_self_log"`
}

func applyRaw(raw rawConfig) (*corelog.Config, error) {
	cfg := corelog.DefaultConfig()

	if raw.ProgramName != "" {
		cfg.ProgramName = raw.ProgramName
	}

	if raw.Sink != "" {
		cfg.Sink = raw.Sink
	}

	if raw.Level != "" {
		level, err := corelog.ParseLevel(raw.Level)
		if err != nil {
			return nil, err
		}

		cfg.Level = level
	}

	if raw.PollTimeoutMS != nil {
		cfg.PollTimeout = time.Duration(*raw.PollTimeoutMS) * time.Millisecond
	}

	if raw.RetriesMax != nil {
		cfg.RetriesMax = *raw.RetriesMax
	}

	if raw.RetryDelayUS != nil {
		cfg.RetryDelay = time.Duration(*raw.RetryDelayUS) * time.Microsecond
	}

	if raw.FlushWaitTimeoutS != nil {
		cfg.FlushWaitTimeout = time.Duration(*raw.FlushWaitTimeoutS) * time.Second
	}

	if raw.DataChannelSize != nil {
		cfg.DataChannelSize = *raw.DataChannelSize
	}

	if raw.EnableSelfLog != nil {
		cfg.EnableSelfLog = *raw.EnableSelfLog
	}

	return &cfg, nil
}

func allKeys() []string {
	return []string{
		"program_name",
		"sink",
		"level",
		"poll_timeout_ms",
		"retries_max",
		"retry_delay_us",
		"flush_wait_timeout_s",
		"data_channel_size",
		"enable_self_log",
	}
}
