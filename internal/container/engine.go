// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/fyralabs/anda/internal/process"
)

const (
	EngineTypePodman EngineType = "podman"
	EngineTypeDocker EngineType = "docker"
)

var (
	// ErrEngineNotAvailable is the sentinel wrapped by EngineNotAvailableError.
	ErrEngineNotAvailable = errors.New("container engine not available")

	// ErrInvalidEngineType is returned for engine names other than docker and podman.
	ErrInvalidEngineType = errors.New("invalid container engine type")
)

type (
	// EngineType identifies the container engine type.
	EngineType string

	// Engine defines the container operations anda uses.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Build builds an image from a Dockerfile.
		Build(ctx context.Context, opts BuildOptions) error
	}

	// BuildOptions contains options for building an image.
	BuildOptions struct {
		// ContextDir is the build context directory.
		ContextDir string
		// Dockerfile is the path to the Dockerfile. Relative paths are
		// resolved by the engine against Dir, not against ContextDir.
		Dockerfile string
		// Tags are the full image references to apply, in order.
		Tags []string
		// Dir is the working directory of the engine process.
		Dir string
	}

	// LookPathFunc resolves a binary name to a path.
	LookPathFunc func(file string) (string, error)

	// EngineOption configures NewEngine.
	EngineOption func(*engineConfig)

	// EngineNotAvailableError is returned when no usable engine binary is found.
	EngineNotAvailableError struct {
		Engine   EngineType
		Fallback bool
	}

	engineConfig struct {
		lookPath LookPathFunc
		fallback bool
		logger   *slog.Logger
	}
)

func (e *EngineNotAvailableError) Error() string {
	if e.Fallback {
		return fmt.Sprintf("container engine '%s' is not available, and %s fallback is also not available", e.Engine, e.Engine.other())
	}
	return fmt.Sprintf("container engine '%s' is not available", e.Engine)
}

func (e *EngineNotAvailableError) Unwrap() error { return ErrEngineNotAvailable }

// ParseEngineType parses "docker" or "podman".
func ParseEngineType(s string) (EngineType, error) {
	switch t := EngineType(s); t {
	case EngineTypePodman, EngineTypeDocker:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEngineType, s)
	}
}

func (t EngineType) String() string { return string(t) }

func (t EngineType) other() EngineType {
	if t == EngineTypePodman {
		return EngineTypeDocker
	}
	return EngineTypePodman
}

// WithLookPath replaces exec.LookPath for binary discovery.
func WithLookPath(fn LookPathFunc) EngineOption {
	return func(c *engineConfig) { c.lookPath = fn }
}

// WithFallback enables or disables falling back to the other engine.
func WithFallback(enabled bool) EngineOption {
	return func(c *engineConfig) { c.fallback = enabled }
}

// WithLogger sets the logger used to report a fallback.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) { c.logger = logger }
}

// NewEngine creates the engine of the requested type. With fallback enabled
// (the default) a missing binary makes it try the other engine.
func NewEngine(kind EngineType, runner process.Runner, opts ...EngineOption) (Engine, error) {
	cfg := engineConfig{lookPath: exec.LookPath, fallback: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := ParseEngineType(string(kind)); err != nil {
		return nil, err
	}

	if path, err := cfg.lookPath(kind.String()); err == nil {
		return newEngine(kind, path, runner), nil
	}
	if !cfg.fallback {
		return nil, &EngineNotAvailableError{Engine: kind}
	}

	other := kind.other()
	path, err := cfg.lookPath(other.String())
	if err != nil {
		return nil, &EngineNotAvailableError{Engine: kind, Fallback: true}
	}
	cfg.logger.Warn("container engine not found, falling back", "requested", kind, "using", other)
	return newEngine(other, path, runner), nil
}

func newEngine(kind EngineType, path string, runner process.Runner) Engine {
	if kind == EngineTypeDocker {
		return NewDockerEngine(path, runner)
	}
	return NewPodmanEngine(path, runner)
}
