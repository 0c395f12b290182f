// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"

	"github.com/fyralabs/anda/internal/issue"
	"github.com/fyralabs/anda/internal/process"
)

var (
	// ErrNoContext is returned when BuildOptions has no context directory.
	ErrNoContext = errors.New("build context is required")

	// ErrNoTags is returned when BuildOptions has no tags.
	ErrNoTags = errors.New("at least one image tag is required")
)

// BaseCLIEngine provides the implementation shared by CLI-based engines.
// Docker and Podman engines embed this struct.
type BaseCLIEngine struct {
	name       string
	binaryPath string
	runner     process.Runner
}

// NewBaseCLIEngine creates a base engine. binaryPath is informational, the
// command itself is invoked by name so the runner resolves it from PATH.
func NewBaseCLIEngine(name, binaryPath string, runner process.Runner) *BaseCLIEngine {
	return &BaseCLIEngine{name: name, binaryPath: binaryPath, runner: runner}
}

// Name returns the engine name used in commands and error messages.
func (e *BaseCLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the resolved path of the engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// Validate checks that the options can produce a build command.
func (opts BuildOptions) Validate() error {
	if opts.ContextDir == "" {
		return ErrNoContext
	}
	if len(opts.Tags) == 0 {
		return ErrNoTags
	}
	return nil
}

// BuildArgs constructs arguments for a container build command.
//
// Generated command: <binary> build -t <tag>... [-f <dockerfile>] <context>
func (e *BaseCLIEngine) BuildArgs(opts BuildOptions) []string {
	args := []string{"build"}
	for _, tag := range opts.Tags {
		args = append(args, "-t", tag)
	}
	if opts.Dockerfile != "" {
		args = append(args, "-f", opts.Dockerfile)
	}
	return append(args, opts.ContextDir)
}

// Build builds an image from a Dockerfile.
func (e *BaseCLIEngine) Build(ctx context.Context, opts BuildOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cmd := process.Cmd{Name: e.name, Args: e.BuildArgs(opts), Dir: opts.Dir}
	if err := e.runner.Run(ctx, cmd); err != nil {
		return buildContainerError(e.name, opts, err)
	}
	return nil
}

// buildContainerError creates an actionable error for container build failures.
func buildContainerError(engine string, opts BuildOptions, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation("build container image").
		WithResource(opts.Tags[0]).
		WithIssue(issue.BuildToolFailedId)

	if opts.Dockerfile != "" {
		ctx.WithSuggestion("Check " + opts.Dockerfile + " for syntax errors")
	} else {
		ctx.WithSuggestion("Check the Dockerfile in " + opts.ContextDir + " for syntax errors")
	}
	ctx.WithSuggestion("Verify the build context path exists relative to the manifest directory")
	ctx.WithSuggestion("Ensure base images are available (try: " + engine + " pull <base-image>)")

	return ctx.Wrap(cause).BuildError()
}
