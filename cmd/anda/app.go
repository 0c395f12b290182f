// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fyralabs/anda/internal/config"
	"github.com/fyralabs/anda/internal/container"
	"github.com/fyralabs/anda/internal/process"
)

// defaultIssueStyle picks a dark or light glamour style on terminals and
// plain text otherwise.
const defaultIssueStyle = "auto"

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App reference.
	App struct {
		Config ConfigProvider
		// Runner executes external build tools. Nil means a process.ExecRunner
		// built with the configured logger.
		Runner   process.Runner
		LookPath container.LookPathFunc

		stdout     io.Writer
		stderr     io.Writer
		issueStyle string

		// Set by the root command before any subcommand runs.
		cfg    *config.Config
		logger *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		Runner     process.Runner
		LookPath   container.LookPathFunc
		Stdout     io.Writer
		Stderr     io.Writer
		IssueStyle string
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.IssueStyle == "" {
		deps.IssueStyle = defaultIssueStyle
	}

	return &App{
		Config:     deps.Config,
		Runner:     deps.Runner,
		LookPath:   deps.LookPath,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		issueStyle: deps.IssueStyle,
		cfg:        config.DefaultConfig(),
		logger:     slog.New(slog.DiscardHandler),
	}
}

// runner returns the injected runner or an exec runner bound to the app's
// output streams.
func (a *App) runner() process.Runner {
	if a.Runner != nil {
		return a.Runner
	}
	return &process.ExecRunner{Stdout: a.stdout, Stderr: a.stderr, Logger: a.logger}
}
