// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fyralabs/anda/internal/process"
)

type (
	// Builder builds the packages of one spec file and returns the paths of
	// the RPMs it produced.
	Builder interface {
		Build(ctx context.Context, spec string, opts *Options) ([]string, error)
	}

	// RPMBuildBuilder runs rpmbuild on the host.
	RPMBuildBuilder struct {
		Runner process.Runner
		Logger *slog.Logger
	}

	// MockBuilder builds a source RPM and rebuilds it in a mock chroot.
	MockBuilder struct {
		Runner process.Runner
		Logger *slog.Logger
	}
)

// NewBuilder returns the builder for kind.
func NewBuilder(kind BuilderKind, runner process.Runner, logger *slog.Logger) Builder {
	if kind == RPMBuild {
		return &RPMBuildBuilder{Runner: runner, Logger: logger}
	}
	return &MockBuilder{Runner: runner, Logger: logger}
}

// Build runs rpmbuild -ba with output directories below opts.TargetDir.
func (b *RPMBuildBuilder) Build(ctx context.Context, spec string, opts *Options) ([]string, error) {
	rpmDir := opts.RPMDir()
	before, err := snapshot(rpmDir)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-ba", spec,
		"--define", "_sourcedir " + opts.Sources,
		"--define", "_rpmdir " + rpmDir,
		"--define", "_srcrpmdir " + filepath.Join(rpmDir, "src"),
	}
	for _, m := range opts.Macros {
		args = append(args, "--define", m.String())
	}

	if err := b.Runner.Run(ctx, process.Cmd{Name: "rpmbuild", Args: args, Dir: opts.WorkDir}); err != nil {
		return nil, err
	}
	return produced(rpmDir, before, logger(b.Logger))
}

// Build runs mock --buildsrpm into a scratch directory, then mock --rebuild
// with opts.TargetDir/rpm as the result directory.
func (b *MockBuilder) Build(ctx context.Context, spec string, opts *Options) ([]string, error) {
	rpmDir := opts.RPMDir()
	if err := os.MkdirAll(rpmDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", rpmDir, err)
	}
	before, err := snapshot(rpmDir)
	if err != nil {
		return nil, err
	}

	srpmDir, err := os.MkdirTemp("", "anda-srpm-")
	if err != nil {
		return nil, fmt.Errorf("creating source rpm directory: %w", err)
	}
	defer os.RemoveAll(srpmDir)

	args := b.base(opts)
	args = append(args, "--buildsrpm")
	if opts.SCMEnable {
		args = append(args, "--scm-enable")
		for _, o := range opts.SCMOpts {
			args = append(args, "--scm-option", o)
		}
	} else {
		args = append(args, "--spec", spec, "--sources", opts.Sources)
	}
	args = append(args, "--resultdir", srpmDir)
	args = append(args, b.common(opts)...)

	if err := b.Runner.Run(ctx, process.Cmd{Name: "mock", Args: args, Dir: opts.WorkDir}); err != nil {
		return nil, err
	}

	srpm, err := findSourceRPM(srpmDir)
	if err != nil {
		return nil, err
	}

	args = b.base(opts)
	args = append(args, "--rebuild", srpm, "--resultdir", rpmDir)
	args = append(args, b.common(opts)...)
	if err := b.Runner.Run(ctx, process.Cmd{Name: "mock", Args: args, Dir: opts.WorkDir}); err != nil {
		return nil, err
	}
	return produced(rpmDir, before, logger(b.Logger))
}

func (b *MockBuilder) base(opts *Options) []string {
	if opts.MockConfig != nil && *opts.MockConfig != "" {
		return []string{"-r", *opts.MockConfig}
	}
	return nil
}

func (b *MockBuilder) common(opts *Options) []string {
	args := []string{"--enable-network"}
	for _, m := range opts.Macros {
		args = append(args, "--define", m.String())
	}
	for _, r := range opts.ExtraRepos {
		args = append(args, "--addrepo", r)
	}
	for _, c := range opts.ConfigOpts {
		args = append(args, "--config-opts", c)
	}
	for _, p := range opts.PluginOpts {
		args = append(args, "--plugin-option", p)
	}
	if opts.NoMirror {
		args = append(args, "--config-opts", "mirrored=False")
	}
	return args
}

func logger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
