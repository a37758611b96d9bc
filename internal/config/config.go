// SPDX-License-Identifier: MIT

// Package config loads the structarray CLI configuration from an optional
// YAML file, STRUCTARRAY_* environment variables and built-in defaults, in
// increasing order of precedence: defaults < file < environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/structarray/storage"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override (STRUCTARRAY_LOG_LEVEL, ...).
const EnvPrefix = "STRUCTARRAY"

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrInvalid indicates a configuration value out of its domain.
var ErrInvalid = errors.New("config: invalid value")

// Config is the CLI configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // console | json
	Output    string `mapstructure:"output"`     // table | json | yaml

	// Partition geometry used by `layout` and `demo`. The defaults are the
	// container geometry; smaller values simulate multi-segment layouts.
	WordMax      uint64 `mapstructure:"word_max"`
	SegmentShift uint   `mapstructure:"segment_shift"`

	Demo DemoConfig `mapstructure:"demo"`
}

// DemoConfig sizes the container built by `demo`.
type DemoConfig struct {
	Rows       uint64 `mapstructure:"rows"`
	Cols       uint64 `mapstructure:"cols"`
	CopyOffset uint64 `mapstructure:"copy_offset"`
	CopyCount  uint64 `mapstructure:"copy_count"`
}

// Load reads path (when non-empty) or a structarray.yaml found in the
// working directory or $HOME/.structarray, then applies environment
// overrides and validates the result. A missing default file is not an
// error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("structarray")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.structarray")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("output", FormatTable)
	v.SetDefault("word_max", storage.WordMax)
	v.SetDefault("segment_shift", storage.SegmentShift)
	v.SetDefault("demo.rows", 4)
	v.SetDefault("demo.cols", 3)
	v.SetDefault("demo.copy_offset", 1)
	v.SetDefault("demo.copy_count", 2)
}

// Validate checks every field against its domain.
// Errors: ErrInvalid.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, ErrInvalid)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format %q: %w", c.LogFormat, ErrInvalid)
	}
	if err := ValidateFormat(c.Output); err != nil {
		return err
	}
	if c.WordMax == 0 {
		return fmt.Errorf("word_max 0: %w", ErrInvalid)
	}
	if c.SegmentShift == 0 || c.SegmentShift >= 63 {
		return fmt.Errorf("segment_shift %d: %w", c.SegmentShift, ErrInvalid)
	}
	if c.Demo.CopyOffset > c.Demo.Rows || c.Demo.CopyCount > c.Demo.Rows-c.Demo.CopyOffset {
		return fmt.Errorf("demo copy range [%d,+%d) of %d rows: %w",
			c.Demo.CopyOffset, c.Demo.CopyCount, c.Demo.Rows, ErrInvalid)
	}

	return nil
}

// ValidateFormat accepts table, json and yaml.
func ValidateFormat(f string) error {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("output %q: %w", f, ErrInvalid)
	}
}

// Standard reports whether the configured geometry is the container one.
func (c *Config) Standard() bool {
	return c.WordMax == storage.WordMax && c.SegmentShift == storage.SegmentShift
}

// Layout computes the partition layout of n slots under the configured
// geometry.
func (c *Config) Layout(n uint64) storage.Layout {
	if c.Standard() {
		return storage.LayoutFor(n)
	}
	return storage.ScaledLayout(n, c.WordMax, c.SegmentShift)
}

// Logger builds a zap logger for the configured level and format.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level %q: %w", c.LogLevel, ErrInvalid)
	}
	zc := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}
