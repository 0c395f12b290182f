// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fyralabs/anda/internal/rpm"
)

const (
	// DefaultTargetDir is the build output directory.
	DefaultTargetDir = "anda-build"

	// LogFormatText renders human-readable log lines.
	LogFormatText LogFormat = "text"
	// LogFormatJSON renders one JSON object per log line.
	LogFormatJSON LogFormat = "json"
)

var (
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidLogLevel is returned when a log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogFormat selects the slog handler.
	LogFormat string

	// Config holds the effective tool settings.
	Config struct {
		TargetDir string          `mapstructure:"target_dir" toml:"target_dir"`
		RPM       RPMConfig       `mapstructure:"rpm" toml:"rpm"`
		Container ContainerConfig `mapstructure:"container" toml:"container"`
		Log       LogConfig       `mapstructure:"log" toml:"log"`
	}

	// RPMConfig holds RPM build defaults.
	RPMConfig struct {
		Builder    string `mapstructure:"builder" toml:"builder"`
		MockConfig string `mapstructure:"mock_config" toml:"mock_config,omitempty"`
		NoMirrors  bool   `mapstructure:"no_mirrors" toml:"no_mirrors"`
	}

	// ContainerConfig holds OCI engine settings.
	ContainerConfig struct {
		Fallback bool `mapstructure:"fallback" toml:"fallback"`
	}

	// LogConfig holds logging settings.
	LogConfig struct {
		Format LogFormat `mapstructure:"format" toml:"format"`
		Level  string    `mapstructure:"level" toml:"level"`
	}

	// InvalidConfigError aggregates field validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		TargetDir: DefaultTargetDir,
		RPM:       RPMConfig{Builder: rpm.Mock.String()},
		Container: ContainerConfig{Fallback: true},
		Log:       LogConfig{Format: LogFormatText, Level: "info"},
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks values the CUE schema cannot see, such as env overrides.
func (c *Config) Validate() error {
	var errs []error
	if c.TargetDir == "" {
		errs = append(errs, errors.New("target_dir must not be empty"))
	}
	if _, err := rpm.ParseBuilderKind(c.RPM.Builder); err != nil {
		errs = append(errs, fmt.Errorf("rpm.builder: %w", err))
	}
	if err := c.Log.Format.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Validate returns an error wrapping ErrInvalidLogFormat for unknown formats.
func (f LogFormat) Validate() error {
	switch f {
	case LogFormatText, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: text, json)", ErrInvalidLogFormat, string(f))
	}
}

// String returns the string representation of the LogFormat.
func (f LogFormat) String() string { return string(f) }

// BuilderKind returns the parsed rpm.builder value, defaulting to mock.
func (c *Config) BuilderKind() rpm.BuilderKind {
	kind, err := rpm.ParseBuilderKind(c.RPM.Builder)
	if err != nil {
		return rpm.Mock
	}
	return kind
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
