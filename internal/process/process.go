// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"
)

// ErrCommandFailed is the sentinel wrapped by ExitError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Cmd describes one external program invocation.
	Cmd struct {
		Name string
		Args []string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Env holds extra KEY=VALUE entries appended to the process environment.
		Env []string
		// Stdout and Stderr override the runner's default writers when set.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner executes commands.
	Runner interface {
		Run(ctx context.Context, cmd Cmd) error
	}

	// ExecRunner runs commands with os/exec, streaming output to the
	// configured writers.
	ExecRunner struct {
		Stdout io.Writer
		Stderr io.Writer
		Logger *slog.Logger
	}

	// ExitError reports a command that ran but exited non-zero.
	ExitError struct {
		Name string
		Args []string
		Code int
	}
)

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
}

// Unwrap returns ErrCommandFailed so callers can use errors.Is.
func (e *ExitError) Unwrap() error { return ErrCommandFailed }

// String renders the command line for logs.
func (c Cmd) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// NewExecRunner returns a runner attached to the process stdout and stderr.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

// Run executes cmd and waits for it to finish. A non-zero exit status is
// returned as *ExitError; failure to start is wrapped with the program name.
func (r *ExecRunner) Run(ctx context.Context, cmd Cmd) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("running command", "cmd", cmd.String(), "dir", cmd.Dir)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdout = firstWriter(cmd.Stdout, r.Stdout)
	c.Stderr = firstWriter(cmd.Stderr, r.Stderr)

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Name: cmd.Name, Args: cmd.Args, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("running %s: %w", cmd.Name, err)
	}
	return nil
}

// EnvSlice converts a map into sorted KEY=VALUE entries.
func EnvSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	slices.Sort(out)
	return out
}

func firstWriter(ws ...io.Writer) io.Writer {
	for _, w := range ws {
		if w != nil {
			return w
		}
	}
	return io.Discard
}
