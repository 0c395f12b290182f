// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fyralabs/anda/internal/artifact"
	"github.com/fyralabs/anda/internal/build"
	"github.com/fyralabs/anda/internal/container"
	"github.com/fyralabs/anda/internal/flatpak"
	"github.com/fyralabs/anda/internal/rpm"
	"github.com/fyralabs/anda/pkg/andafile"
	"github.com/fyralabs/anda/pkg/fspath"
)

// buildFlags are the flags of `anda build`.
type buildFlags struct {
	all        bool
	pkg        artifact.PackageType
	rpmBuilder rpm.BuilderKind
	mockConfig string
	extraRepos []string
	macros     []string
	noMirrors  bool
	flatpak    flatpak.Options
}

func newBuildCommand(app *App, global *globalFlags) *cobra.Command {
	flags := &buildFlags{pkg: artifact.All}

	cmd := &cobra.Command{
		Use:   "build [PROJECT]",
		Short: "Build a project, or every project with --all",
		Long: `Build a project from the manifest.

PROJECT is a project name or one of its aliases. Without --package every
backend the project declares runs, in the order rpm, flatpak, podman, docker,
and the first failure stops the rest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var project string
			if len(args) > 0 {
				project = args[0]
			}
			return app.runBuild(cmd, global, flags, project)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.all, "all", false, "build every project in the manifest")
	f.VarP(&flags.pkg, "package", "p", "backend to build (rpm, docker, podman, flatpak, rpm-ostree, all)")
	f.Var(&flags.rpmBuilder, "rpm-builder", "RPM builder (mock, rpmbuild)")
	f.StringVarP(&flags.mockConfig, "mock-config", "c", "", "mock config, overriding the project and manifest")
	f.StringArrayVar(&flags.extraRepos, "extra-repos", nil, "additional repository URL for mock (repeatable)")
	f.StringArrayVarP(&flags.macros, "rpm-macro", "D", nil, `RPM macro override as "NAME VALUE" (repeatable)`)
	f.BoolVar(&flags.noMirrors, "no-mirrors", false, "disable mock mirror lists")
	f.StringArrayVar(&flags.flatpak.ExtraSources, "extra-source", nil, "extra flatpak-builder source directory (repeatable)")
	f.StringArrayVar(&flags.flatpak.ExtraSourceURLs, "extra-source-url", nil, "extra flatpak-builder source URL (repeatable)")
	f.BoolVar(&flags.flatpak.KeepBuildDirs, "dont-delete-build-dir", false, "keep flatpak-builder build directories")

	return cmd
}

func (a *App) runBuild(cmd *cobra.Command, global *globalFlags, flags *buildFlags, project string) error {
	ctx := cmd.Context()

	manifest, err := andafile.Load(ctx, global.manifest, andafile.WithLogger(a.logger))
	if err != nil {
		return err
	}
	if manifest.Config.MockConfig == nil && a.cfg.RPM.MockConfig != "" {
		manifest.Config.MockConfig = &a.cfg.RPM.MockConfig
	}

	workDir, err := filepath.Abs(fspath.ParentDir(global.manifest))
	if err != nil {
		return fmt.Errorf("resolving manifest directory: %w", err)
	}
	targetDir, err := filepath.Abs(a.cfg.TargetDir)
	if err != nil {
		return fmt.Errorf("resolving target directory: %w", err)
	}

	runner := a.runner()
	orch := build.NewOrchestrator(runner,
		&flatpak.Builder{Runner: runner, TargetDir: targetDir, Options: flags.flatpak, Logger: a.logger},
		&container.Builder{Runner: runner, Fallback: a.cfg.Container.Fallback, LookPath: a.LookPath, Logger: a.logger},
		a.logger,
	)

	rpmFlags := rpm.Flags{
		ExtraRepos: flags.extraRepos,
		Macros:     flags.macros,
		NoMirrors:  a.cfg.RPM.NoMirrors,
		Builder:    a.cfg.BuilderKind(),
	}
	if flags.mockConfig != "" {
		rpmFlags.MockConfig = &flags.mockConfig
	}

	arts, err := orch.Build(ctx, build.Request{
		Manifest:  manifest,
		Project:   project,
		All:       flags.all,
		Package:   flags.pkg,
		RPM:       rpmFlags,
		WorkDir:   workDir,
		TargetDir: targetDir,
	})
	for _, art := range arts.Items() {
		fmt.Fprintln(a.stdout, SuccessStyle.Render(art.ReportLine()))
	}
	return err
}
