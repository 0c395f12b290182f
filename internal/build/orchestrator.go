// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fyralabs/anda/internal/artifact"
	"github.com/fyralabs/anda/internal/container"
	"github.com/fyralabs/anda/internal/issue"
	"github.com/fyralabs/anda/internal/process"
	"github.com/fyralabs/anda/internal/rpm"
	"github.com/fyralabs/anda/internal/runtime"
	"github.com/fyralabs/anda/pkg/andafile"
)

// allOrder is the backend order used when every backend is selected.
var allOrder = []artifact.PackageType{artifact.Rpm, artifact.Flatpak, artifact.Podman, artifact.Docker}

type (
	// RPMBuilderFactory returns the RPM builder for a builder kind.
	RPMBuilderFactory func(kind rpm.BuilderKind) rpm.Builder

	// FlatpakBuilder produces a flatpak ref and a bundle from a manifest.
	FlatpakBuilder interface {
		Build(ctx context.Context, manifest, dir string) (string, error)
		Bundle(ctx context.Context, ref string) (string, error)
	}

	// OCIBuilder builds one image and returns the references it tagged.
	OCIBuilder interface {
		Build(ctx context.Context, kind container.EngineType, img container.Image, dir string) ([]string, error)
	}

	// HookRunner runs a pre or post hook file.
	HookRunner interface {
		Run(ctx context.Context, hook runtime.Hook) error
	}

	// RepoIndexer regenerates repository metadata.
	RepoIndexer interface {
		Index(ctx context.Context, repoDir string) error
	}

	// Synthesizer derives RPM build options.
	Synthesizer interface {
		Synthesize(in rpm.Input) (*rpm.Options, error)
	}

	// Orchestrator runs backend pipelines for projects.
	Orchestrator struct {
		RPM     RPMBuilderFactory
		Flatpak FlatpakBuilder
		OCI     OCIBuilder
		Hooks   HookRunner
		Indexer RepoIndexer
		Synth   Synthesizer
		Logger  *slog.Logger
	}

	// ProjectRequest selects the backends to run for one project.
	ProjectRequest struct {
		Name    string
		Project *andafile.Project
		Package artifact.PackageType
		RPM     rpm.Flags
		// WorkDir is the root manifest directory. Project paths are relative to it.
		WorkDir   string
		TargetDir string
		// GlobalMockConfig is the manifest-wide mock config.
		GlobalMockConfig *string
	}

	// Request selects projects from a manifest.
	Request struct {
		Manifest *andafile.Manifest
		// Project is a project name or alias. Ignored when All is set.
		Project   string
		All       bool
		Package   artifact.PackageType
		RPM       rpm.Flags
		WorkDir   string
		TargetDir string
	}
)

// NewOrchestrator wires the default collaborators around runner.
func NewOrchestrator(runner process.Runner, flatpak FlatpakBuilder, oci OCIBuilder, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		RPM: func(kind rpm.BuilderKind) rpm.Builder {
			return rpm.NewBuilder(kind, runner, logger)
		},
		Flatpak: flatpak,
		OCI:     oci,
		Hooks:   runtime.NewHookRunner(runner, logger),
		Indexer: &rpm.Indexer{Runner: runner},
		Synth:   rpm.NewSynthesizer(logger),
		Logger:  logger,
	}
}

// Build resolves the requested projects and builds them in order. Artifacts
// built before a failure are returned together with the error.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*artifact.Artifacts, error) {
	all := artifact.New()

	projectReq := func(name string, p *andafile.Project) ProjectRequest {
		return ProjectRequest{
			Name:             name,
			Project:          p,
			Package:          req.Package,
			RPM:              req.RPM,
			WorkDir:          req.WorkDir,
			TargetDir:        req.TargetDir,
			GlobalMockConfig: req.Manifest.Config.MockConfig,
		}
	}

	if req.All {
		for _, name := range req.Manifest.Names() {
			if err := ctx.Err(); err != nil {
				return all, err
			}
			o.logger().Info("Building project: " + name)
			arts, err := o.BuildProject(ctx, projectReq(name, req.Manifest.Projects[name]))
			all.Append(arts)
			if err != nil {
				return all, err
			}
		}
		return all, nil
	}

	if req.Project == "" {
		return all, ErrNoProjectSpecified
	}
	p, ok := req.Manifest.GetProject(req.Project)
	if !ok {
		return all, &ProjectNotFoundError{Name: req.Project}
	}
	name, _ := req.Manifest.FindKey(p)
	arts, err := o.BuildProject(ctx, projectReq(name, p))
	all.Append(arts)
	return all, err
}

// BuildProject runs the selected backends of one project. With artifact.All
// the declared backends run in the order rpm, flatpak, podman, docker and the
// first failure stops the rest.
func (o *Orchestrator) BuildProject(ctx context.Context, req ProjectRequest) (*artifact.Artifacts, error) {
	arts := artifact.New()

	switch req.Package {
	case artifact.All:
		for _, t := range allOrder {
			if !declared(req.Project, t) {
				continue
			}
			if err := o.runBackend(ctx, req, t, arts); err != nil {
				return arts, err
			}
		}
		return arts, nil
	case artifact.RpmOstree:
		return arts, ErrUnsupportedPackageType
	case artifact.Rpm, artifact.Flatpak, artifact.Podman, artifact.Docker:
		if !declared(req.Project, req.Package) {
			o.logger().Info("No "+backendName(req.Package)+" build defined for project", "project", req.Name)
			return arts, nil
		}
		return arts, o.runBackend(ctx, req, req.Package, arts)
	default:
		return arts, ErrUnsupportedPackageType
	}
}

func (o *Orchestrator) runBackend(ctx context.Context, req ProjectRequest, t artifact.PackageType, arts *artifact.Artifacts) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// RPM and flatpak pipelines record into their own list so a failed stage
	// adds nothing. Images are recorded as each one is built.
	stage := artifact.New()
	var err error
	switch t {
	case artifact.Rpm:
		err = o.buildRPM(ctx, req, stage)
	case artifact.Flatpak:
		err = o.buildFlatpak(ctx, req, stage)
	case artifact.Podman:
		err = o.buildOCI(ctx, req, container.EngineTypePodman, req.Project.Podman, t, arts)
	case artifact.Docker:
		err = o.buildOCI(ctx, req, container.EngineTypeDocker, req.Project.Docker, t, arts)
	}
	if err != nil {
		return &StageError{Type: t, Err: err}
	}
	arts.Append(stage)
	return nil
}

func (o *Orchestrator) buildRPM(ctx context.Context, req ProjectRequest, arts *artifact.Artifacts) error {
	r := req.Project.Rpm
	opts, err := o.Synth.Synthesize(rpm.Input{
		Rpm:              r,
		Flags:            req.RPM,
		WorkDir:          req.WorkDir,
		TargetDir:        req.TargetDir,
		GlobalMockConfig: req.GlobalMockConfig,
	})
	if err != nil {
		return err
	}

	if err := o.runHook(ctx, req, "pre_script", r.PreScript); err != nil {
		return err
	}

	o.logger().Info("building RPMs", "project", req.Name, "spec", r.Spec, "builder", req.RPM.Builder, "output", opts.RPMDir())
	pkgs, err := o.RPM(req.RPM.Builder).Build(ctx, r.Spec, opts)
	if err != nil {
		return toolError("build RPMs", r.Spec, err)
	}
	if err := o.Indexer.Index(ctx, opts.RPMDir()); err != nil {
		return toolError("index repository", opts.RPMDir(), err)
	}

	if err := o.runHook(ctx, req, "post_script", r.PostScript); err != nil {
		return err
	}

	for _, p := range pkgs {
		arts.Add(p, artifact.Rpm)
	}
	return nil
}

func (o *Orchestrator) buildFlatpak(ctx context.Context, req ProjectRequest, arts *artifact.Artifacts) error {
	f := req.Project.Flatpak
	if err := o.runHook(ctx, req, "pre_script", f.PreScript); err != nil {
		return err
	}

	ref, err := o.Flatpak.Build(ctx, f.Manifest, req.WorkDir)
	if err != nil {
		return toolError("build flatpak", f.Manifest, err)
	}
	bundle, err := o.Flatpak.Bundle(ctx, ref)
	if err != nil {
		return toolError("bundle flatpak", ref, err)
	}

	if err := o.runHook(ctx, req, "post_script", f.PostScript); err != nil {
		return err
	}

	arts.Add(ref, artifact.Flatpak)
	arts.Add(bundle, artifact.Flatpak)
	return nil
}

func (o *Orchestrator) buildOCI(ctx context.Context, req ProjectRequest, kind container.EngineType, d *andafile.Docker, t artifact.PackageType, arts *artifact.Artifacts) error {
	for _, tag := range d.ImageTags() {
		img := d.Image[tag]
		build := container.Image{
			Tag:        tag,
			Dockerfile: img.Dockerfile,
			Version:    container.LatestVersion,
			Context:    img.Context,
		}
		if img.TagLatest != nil {
			build.TagLatest = *img.TagLatest
		}
		if img.Version != nil {
			build.Version = *img.Version
		}

		refs, err := o.OCI.Build(ctx, kind, build, req.WorkDir)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			arts.Add(ref, t)
		}
	}
	return nil
}

func (o *Orchestrator) runHook(ctx context.Context, req ProjectRequest, kind string, path *string) error {
	if path == nil {
		return nil
	}
	err := o.Hooks.Run(ctx, runtime.Hook{Path: *path, Dir: req.WorkDir, Env: req.Project.Env})
	if err == nil {
		return nil
	}
	return issue.NewErrorContext().
		WithOperation("run " + kind).
		WithResource(*path).
		WithIssue(issue.HookFailedId).
		Wrap(err).
		BuildError()
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func declared(p *andafile.Project, t artifact.PackageType) bool {
	switch t {
	case artifact.Rpm:
		return p.Rpm != nil
	case artifact.Flatpak:
		return p.Flatpak != nil
	case artifact.Podman:
		return p.Podman != nil
	case artifact.Docker:
		return p.Docker != nil
	default:
		return false
	}
}

// toolError attaches the build tool guide to external tool failures.
func toolError(op, resource string, err error) error {
	if !errors.Is(err, process.ErrCommandFailed) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(resource).
		WithIssue(issue.BuildToolFailedId).
		WithSuggestion("Re-run with --verbose to see the exact command line").
		Wrap(err).
		BuildError()
}
