// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fyralabs/anda/internal/issue"
	"github.com/fyralabs/anda/internal/process"
)

// LatestVersion is the version tag used when an image declares none.
const LatestVersion = "latest"

type (
	// Image is one image declaration of a project.
	Image struct {
		// Tag is the image name without version, e.g. ghcr.io/org/app.
		Tag        string
		Dockerfile *string
		TagLatest  bool
		// Version defaults to LatestVersion when empty.
		Version string
		Context string
	}

	// Builder builds images, picking an engine per call.
	Builder struct {
		Runner process.Runner
		// Fallback allows using the other engine when the requested one is missing.
		Fallback bool
		// LookPath overrides exec.LookPath when set.
		LookPath LookPathFunc
		Logger   *slog.Logger
	}
)

// Refs returns the references the image is tagged with, version first.
func (img Image) Refs() []string {
	version := img.Version
	if version == "" {
		version = LatestVersion
	}
	refs := []string{img.Tag + ":" + version}
	if img.TagLatest && version != LatestVersion {
		refs = append(refs, img.Tag+":"+LatestVersion)
	}
	return refs
}

// Build builds img with the engine of the given kind, running the engine in
// dir (the manifest directory). It returns the references tagged.
func (b *Builder) Build(ctx context.Context, kind EngineType, img Image, dir string) ([]string, error) {
	opts := []EngineOption{WithFallback(b.Fallback), WithLogger(b.logger())}
	if b.LookPath != nil {
		opts = append(opts, WithLookPath(b.LookPath))
	}
	engine, err := NewEngine(kind, b.Runner, opts...)
	if err != nil {
		return nil, engineError(kind, err)
	}

	buildOpts := BuildOptions{
		ContextDir: img.Context,
		Tags:       img.Refs(),
		Dir:        dir,
	}
	if img.Dockerfile != nil {
		buildOpts.Dockerfile = *img.Dockerfile
	}

	b.logger().Info("building image", "engine", engine.Name(), "tag", img.Tag, "context", img.Context)
	if err := engine.Build(ctx, buildOpts); err != nil {
		return nil, err
	}
	return buildOpts.Tags, nil
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func engineError(kind EngineType, cause error) error {
	if !errors.Is(cause, ErrEngineNotAvailable) {
		return cause
	}
	return issue.NewErrorContext().
		WithOperation("find container engine").
		WithResource(kind.String()).
		WithIssue(issue.ContainerEngineNotFoundId).
		WithSuggestion("Install " + kind.String() + " or make sure it is in your PATH").
		Wrap(cause).
		BuildError()
}
