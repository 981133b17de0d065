// Package tuning loads a corelog.Config from the process environment, a
// YAML document, or a file, using Viper the same way the rest of this
// module's corpus loads configuration. It deliberately does not read the
// result back automatically on a change: the subsystem's Config is fixed
// at Init and is not safe to rewrite underneath a running handler.
package tuning

import (
	"bytes"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/viper"

	"github.com/ihandler/corelog"
)

// FromEnv builds a Config from environment variables under prefix, using
// Viper's automatic env binding.
func FromEnv(prefix string) (*corelog.Config, error) {
	v := viper.New()

	if err := configureEnv(v, prefix); err != nil {
		return nil, err
	}

	return fromViper(v)
}

// FromYAML parses a YAML document into a Config.
func FromYAML(data []byte) (*corelog.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, ewrap.Wrapf(err, "reading config from yaml")
	}

	return fromViper(v)
}

// FromFile loads a Config from the file at path, its format inferred from
// the extension the way Viper always infers it.
func FromFile(path string) (*corelog.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, ewrap.Wrapf(err, "reading config file %s", path)
	}

	return fromViper(v)
}

func configureEnv(v *viper.Viper, prefix string) error {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if prefix != "" {
		v.SetEnvPrefix(strings.ToLower(strings.TrimSuffix(prefix, "_")))
	}

	group := ewrap.NewErrorGroup()

	for _, key := range allKeys() {
		if err := v.BindEnv(key); err != nil {
			group.Add(err)
		}
	}

	if group.HasErrors() {
		return group
	}

	return nil
}

func fromViper(v *viper.Viper) (*corelog.Config, error) {
	var raw rawConfig

	if err := v.Unmarshal(&raw); err != nil {
		return nil, ewrap.Wrapf(err, "unmarshaling config")
	}

	return applyRaw(raw)
}
