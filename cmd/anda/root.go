// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/fyralabs/anda/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

const defaultManifest = "anda.hcl"

// globalFlags are the persistent root flags.
type globalFlags struct {
	manifest  string
	targetDir string
	settings  string
	logFormat string
	verbose   bool
}

// NewRootCommand builds the full command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "anda",
		Short: "Build RPMs, flatpaks and OCI images from one manifest",
		Long: TitleStyle.Render("anda") + SubtitleStyle.Render(" - a multi-backend package build orchestrator") + `

anda reads projects from an anda.hcl manifest (and every nested anda.hcl
below it) and builds each project with mock or rpmbuild, flatpak-builder,
podman or docker.

` + SubtitleStyle.Render("Examples:") + `
  anda list                    List every project in the manifest
  anda build hello             Build all backends of project 'hello'
  anda build --all -p rpm      Build the RPMs of every project
  anda clean                   Remove the build output directory`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initConfig(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.manifest, "config", "f", defaultManifest, "path to the root manifest")
	pf.StringVarP(&flags.targetDir, "target-dir", "t", config.DefaultTargetDir, "build output directory (env ANDA_TARGET_DIR)")
	pf.StringVar(&flags.settings, "settings", "", "tool settings file (default $XDG_CONFIG_HOME/anda/config.cue)")
	pf.StringVar(&flags.logFormat, "log-format", string(config.LogFormatText), "log output format (text, json)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newBuildCommand(app, flags),
		newListCommand(app, flags),
		newCleanCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits with its status.
// This is called by main.main().
func Execute() {
	os.Exit(Run())
}

// Run executes the CLI against os.Args and returns the process exit code.
func Run() int {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version is passed as an option.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// initConfig loads the tool settings, binding the flags of the command
// about to run, and builds the logger.
func (a *App) initConfig(cmd *cobra.Command, flags *globalFlags) error {
	fs := cmd.Flags()
	cfg, err := a.Config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: flags.settings,
		Flags: config.FlagBindings{
			"target_dir":     fs.Lookup("target-dir"),
			"log.format":     fs.Lookup("log-format"),
			"rpm.builder":    fs.Lookup("rpm-builder"),
			"rpm.no_mirrors": fs.Lookup("no-mirrors"),
		},
	})
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if flags.verbose {
		level = slog.LevelDebug
	}

	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.Log.Format, level)
	slog.SetDefault(a.logger)
	return nil
}
