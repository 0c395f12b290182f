// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/fyralabs/anda/internal/process"
)

// DefaultShell runs hook commands.
const DefaultShell = "sh"

// ErrHookSyntax is the sentinel wrapped by SyntaxError.
var ErrHookSyntax = errors.New("hook syntax error")

type (
	// Hook is one hook file invocation.
	Hook struct {
		// Path is the hook file, relative to Dir unless absolute.
		Path string
		// Dir is the working directory for every command.
		Dir string
		// Env is layered over the process environment.
		Env map[string]string
	}

	// HookRunner executes hook files through a process.Runner.
	HookRunner struct {
		Runner process.Runner
		Shell  string
		Logger *slog.Logger
	}

	// Command is a single hook line.
	Command struct {
		Line int
		Text string
	}

	// SyntaxError reports a hook line the shell parser rejects.
	SyntaxError struct {
		Path string
		Line int
		Err  error
	}
)

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

// Unwrap returns ErrHookSyntax so callers can use errors.Is for programmatic detection.
func (e *SyntaxError) Unwrap() error { return ErrHookSyntax }

// NewHookRunner returns a HookRunner using DefaultShell.
func NewHookRunner(runner process.Runner, logger *slog.Logger) *HookRunner {
	return &HookRunner{Runner: runner, Shell: DefaultShell, Logger: logger}
}

// Run reads the hook file, checks every command and runs them in order.
func (h *HookRunner) Run(ctx context.Context, hook Hook) error {
	path := hook.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(hook.Dir, path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading hook %s: %w", hook.Path, err)
	}

	cmds := ParseCommands(src)
	if err := Check(hook.Path, cmds); err != nil {
		return err
	}

	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	shell := h.Shell
	if shell == "" {
		shell = DefaultShell
	}
	env := process.EnvSlice(hook.Env)

	logger.Info("running hook", "path", hook.Path, "commands", len(cmds))
	for _, c := range cmds {
		err := h.Runner.Run(ctx, process.Cmd{
			Name: shell,
			Args: []string{"-x", "-c", c.Text},
			Dir:  hook.Dir,
			Env:  env,
		})
		if err != nil {
			return fmt.Errorf("hook %s line %d: %w", hook.Path, c.Line, err)
		}
	}
	return nil
}

// ParseCommands splits hook source into commands, skipping blank lines and
// '#' comments. Line numbers are 1-based.
func ParseCommands(src []byte) []Command {
	var cmds []Command
	sc := bufio.NewScanner(bytes.NewReader(src))
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmds = append(cmds, Command{Line: n, Text: text})
	}
	return cmds
}

// Check parses every command with a POSIX shell parser.
func Check(path string, cmds []Command) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	for _, c := range cmds {
		if _, err := parser.Parse(strings.NewReader(c.Text), path); err != nil {
			return &SyntaxError{Path: path, Line: c.Line, Err: err}
		}
	}
	return nil
}
