package hoist

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/TarunAkash/hoist-anticipated-expressions/internal/libfunc"
)

// Config is the configuration of a Pass, usually loaded from a TOML file.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Dump     DumpConfig     `toml:"dump"`
	LibFuncs LibFuncsConfig `toml:"libfuncs"`
}

// LogConfig configures the logger built by New when none is given.
type LogConfig struct {
	// Level is one of debug, info, warn, error, dpanic, panic or fatal.
	Level string `toml:"level"`
}

// DumpConfig configures the dump of the analysis sets.
type DumpConfig struct {
	// Sets enables the dump of Use, Kill, In and Out sets of every round to stderr.
	Sets bool `toml:"sets"`
}

// LibFuncsConfig amends the built-in table of pure library routines.
type LibFuncsConfig struct {
	// Pure are additional routines without side effects.
	Pure []string `toml:"pure"`
	// Impure are routines which must never be treated as pure, even if built in.
	Impure []string `toml:"impure"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{Log: LogConfig{Level: "info"}}
}

// LoadConfig reads the TOML file at `path` on top of the default configuration, and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := NewConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Save writes the configuration to `path` as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate returns every problem of the configuration combined with multierr, or nil.
func (c *Config) Validate() (err error) {
	if _, lerr := zapcore.ParseLevel(c.Log.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log.level: %w", lerr))
	}

	pure := make(map[string]struct{}, len(c.LibFuncs.Pure))
	for _, name := range c.LibFuncs.Pure {
		if name == "" {
			err = multierr.Append(err, errors.New("libfuncs.pure: empty routine name"))
			continue
		}
		pure[name] = struct{}{}
	}
	for _, name := range c.LibFuncs.Impure {
		if name == "" {
			err = multierr.Append(err, errors.New("libfuncs.impure: empty routine name"))
			continue
		}
		if _, ok := pure[name]; ok {
			err = multierr.Append(err, fmt.Errorf("libfuncs: %q is both pure and impure", name))
		}
	}
	return
}

// purity returns the built-in table amended by the configuration.
func (c *Config) purity() *libfunc.Table {
	overlay := libfunc.New()
	for _, name := range c.LibFuncs.Pure {
		overlay.Set(name, true)
	}
	for _, name := range c.LibFuncs.Impure {
		overlay.Set(name, false)
	}
	table := libfunc.Default()
	table.Merge(overlay)
	return table
}
