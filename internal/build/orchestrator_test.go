// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyralabs/anda/internal/artifact"
	"github.com/fyralabs/anda/internal/container"
	"github.com/fyralabs/anda/internal/flatpak"
	"github.com/fyralabs/anda/internal/issue"
	"github.com/fyralabs/anda/internal/process"
	"github.com/fyralabs/anda/internal/rpm"
	"github.com/fyralabs/anda/internal/testutil"
	"github.com/fyralabs/anda/pkg/andafile"
)

type fixture struct {
	orch   *Orchestrator
	runner *testutil.FakeRunner
	dir    string
	target string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := testutil.WriteTree(t, map[string]string{
		"app.spec":            "Name: app\n",
		"rpm_pre.sh":          "echo pre\n",
		"org.example.App.yml": "id: org.example.App\n",
	})
	target := filepath.Join(dir, "anda-build")
	runner := &testutil.FakeRunner{}

	fp := &flatpak.Builder{Runner: runner, TargetDir: target}
	oci := &container.Builder{
		Runner:   runner,
		LookPath: func(file string) (string, error) { return "/usr/bin/" + file, nil },
	}
	orch := NewOrchestrator(runner, fp, oci, nil)
	orch.Synth = &rpm.Synthesizer{
		Clock:  testutil.NewFakeClock(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
		Commit: func(string) (string, bool) { return "", false },
	}

	return &fixture{orch: orch, runner: runner, dir: dir, target: target}
}

func ptr[T any](v T) *T { return &v }

func fullProject() *andafile.Project {
	return &andafile.Project{
		Rpm: &andafile.RpmBuild{Spec: "app.spec", PreScript: ptr("rpm_pre.sh")},
		Flatpak: &andafile.Flatpak{
			Manifest: "org.example.App.yml",
		},
		Podman: &andafile.Docker{Image: map[string]*andafile.DockerImage{
			"ghcr.io/example/app": {Context: ".", Version: ptr("1.0"), TagLatest: ptr(true)},
		}},
		Docker: &andafile.Docker{Image: map[string]*andafile.DockerImage{
			"docker.io/example/app": {Context: ".", Dockerfile: ptr("Containerfile")},
		}},
		Env:    map[string]string{"FOO": "bar"},
		Labels: map[string]string{},
	}
}

func (f *fixture) request(p *andafile.Project, pkg artifact.PackageType) ProjectRequest {
	return ProjectRequest{
		Name:      "app",
		Project:   p,
		Package:   pkg,
		RPM:       rpm.Flags{Builder: rpm.RPMBuild},
		WorkDir:   f.dir,
		TargetDir: f.target,
	}
}

// writeRPMOnBuild simulates rpmbuild dropping a package into the output tree.
func (f *fixture) writeRPMOnBuild(t *testing.T) {
	t.Helper()
	f.runner.OnRun = func(cmd process.Cmd) error {
		if cmd.Name != "rpmbuild" {
			return nil
		}
		out := filepath.Join(f.target, "rpm", "x86_64")
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(out, "app-1.0-1.x86_64.rpm"), []byte("rpm"), 0o644)
	}
}

func TestBuildProject_AllBackends(t *testing.T) {
	f := newFixture(t)
	f.writeRPMOnBuild(t)

	arts, err := f.orch.BuildProject(context.Background(), f.request(fullProject(), artifact.All))
	require.NoError(t, err)

	assert.Equal(t, []string{"sh", "rpmbuild", "createrepo_c", "flatpak-builder", "flatpak", "podman", "docker"}, f.runner.Names())

	hook, ok := f.runner.Find("sh")
	require.True(t, ok)
	assert.Equal(t, []string{"-x", "-c", "echo pre"}, hook.Args)
	assert.Equal(t, f.dir, hook.Dir)
	assert.Equal(t, []string{"FOO=bar"}, hook.Env)

	items := arts.Items()
	require.Len(t, items, 6)
	assert.Equal(t, artifact.Rpm, items[0].Type)
	assert.Equal(t, filepath.Join(f.target, "rpm", "x86_64", "app-1.0-1.x86_64.rpm"), items[0].Path)
	assert.Equal(t, artifact.Artifact{Path: "org.example.App", Type: artifact.Flatpak}, items[1])
	assert.Equal(t, artifact.Flatpak, items[2].Type)
	assert.Equal(t, artifact.Artifact{Path: "ghcr.io/example/app:1.0", Type: artifact.Podman}, items[3])
	assert.Equal(t, artifact.Artifact{Path: "ghcr.io/example/app:latest", Type: artifact.Podman}, items[4])
	assert.Equal(t, artifact.Artifact{Path: "docker.io/example/app:latest", Type: artifact.Docker}, items[5])
}

func TestBuildProject_ShortCircuit(t *testing.T) {
	f := newFixture(t)
	f.runner.FailOn = map[string]error{
		"rpmbuild": &process.ExitError{Name: "rpmbuild", Code: 1},
	}

	arts, err := f.orch.BuildProject(context.Background(), f.request(fullProject(), artifact.All))
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, artifact.Rpm, stageErr.Type)
	assert.Contains(t, err.Error(), "Failed to build RPMs")
	assert.ErrorIs(t, err, process.ErrCommandFailed)

	iss, ok := issue.Lookup(err)
	require.True(t, ok)
	assert.Equal(t, issue.BuildToolFailedId, iss.Id())

	assert.Equal(t, []string{"sh", "rpmbuild"}, f.runner.Names())
	assert.Zero(t, arts.Len())
}

func TestBuildProject_InvalidMacro(t *testing.T) {
	f := newFixture(t)
	req := f.request(fullProject(), artifact.All)
	req.RPM.Macros = []string{"badmacro"}

	arts, err := f.orch.BuildProject(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, rpm.ErrInvalidMacro)
	assert.Contains(t, err.Error(), "badmacro")
	assert.Contains(t, err.Error(), "Failed to build RPMs")

	assert.Empty(t, f.runner.Cmds)
	assert.Zero(t, arts.Len())
}

func TestBuildProject_SpecificBackendNotDeclared(t *testing.T) {
	f := newFixture(t)
	p := &andafile.Project{Rpm: &andafile.RpmBuild{Spec: "app.spec"}}

	for _, pkg := range []artifact.PackageType{artifact.Flatpak, artifact.Podman, artifact.Docker} {
		arts, err := f.orch.BuildProject(context.Background(), f.request(p, pkg))
		require.NoError(t, err, pkg.String())
		assert.Zero(t, arts.Len())
	}
	assert.Empty(t, f.runner.Cmds)
}

func TestBuildProject_SpecificBackendOnly(t *testing.T) {
	f := newFixture(t)

	arts, err := f.orch.BuildProject(context.Background(), f.request(fullProject(), artifact.Docker))
	require.NoError(t, err)

	assert.Equal(t, []string{"docker"}, f.runner.Names())
	assert.Equal(t, []string{"docker build -t docker.io/example/app:latest -f Containerfile ."}, f.runner.Lines())
	assert.Equal(t, 1, arts.Len())
}

func TestBuildProject_RpmOstree(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.BuildProject(context.Background(), f.request(fullProject(), artifact.RpmOstree))
	assert.ErrorIs(t, err, ErrUnsupportedPackageType)
	assert.Empty(t, f.runner.Cmds)
}

func TestBuildProject_OCIFailFast(t *testing.T) {
	f := newFixture(t)
	f.runner.FailOn = map[string]error{"podman": &process.ExitError{Name: "podman", Code: 125}}

	p := &andafile.Project{Podman: &andafile.Docker{Image: map[string]*andafile.DockerImage{
		"a.example/one": {Context: "."},
		"b.example/two": {Context: "."},
	}}}

	arts, err := f.orch.BuildProject(context.Background(), f.request(p, artifact.All))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to build Podman images")

	require.Len(t, f.runner.Cmds, 1)
	assert.Contains(t, f.runner.Lines()[0], "a.example/one:latest")
	assert.Zero(t, arts.Len())
}

func TestBuildProject_OCIKeepsImagesBuiltBeforeFailure(t *testing.T) {
	f := newFixture(t)
	podmanRuns := 0
	f.runner.OnRun = func(cmd process.Cmd) error {
		if cmd.Name != "podman" {
			return nil
		}
		podmanRuns++
		if podmanRuns == 2 {
			return &process.ExitError{Name: "podman", Code: 125}
		}
		return nil
	}

	p := &andafile.Project{Podman: &andafile.Docker{Image: map[string]*andafile.DockerImage{
		"a.example/one":   {Context: "."},
		"b.example/two":   {Context: "."},
		"c.example/three": {Context: "."},
	}}}

	arts, err := f.orch.BuildProject(context.Background(), f.request(p, artifact.Podman))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to build Podman images")

	assert.Equal(t, 2, podmanRuns)
	items := arts.Items()
	require.Len(t, items, 1)
	assert.Equal(t, artifact.Artifact{Path: "a.example/one:latest", Type: artifact.Podman}, items[0])
}

func TestBuildProject_NoContainerEngine(t *testing.T) {
	f := newFixture(t)
	f.orch.OCI = &container.Builder{
		Runner:   f.runner,
		Fallback: true,
		LookPath: func(string) (string, error) { return "", exec.ErrNotFound },
	}

	_, err := f.orch.BuildProject(context.Background(), f.request(fullProject(), artifact.Docker))
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrEngineNotAvailable)
	assert.Contains(t, err.Error(), "Failed to build Docker images")
}

func TestBuildProject_HookFailure(t *testing.T) {
	f := newFixture(t)
	f.runner.FailOn = map[string]error{"sh": &process.ExitError{Name: "sh", Code: 2}}

	_, err := f.orch.BuildProject(context.Background(), f.request(fullProject(), artifact.Rpm))
	require.Error(t, err)

	iss, ok := issue.Lookup(err)
	require.True(t, ok)
	assert.Equal(t, issue.HookFailedId, iss.Id())
	assert.Equal(t, []string{"sh"}, f.runner.Names())
}

func TestBuildProject_FlatpakPostHook(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "flatpak_post.sh"), []byte("echo one\n# comment\n\necho two\n"), 0o644))

	p := &andafile.Project{Flatpak: &andafile.Flatpak{
		Manifest:   "org.example.App.yml",
		PostScript: ptr("flatpak_post.sh"),
	}}

	_, err := f.orch.BuildProject(context.Background(), f.request(p, artifact.Flatpak))
	require.NoError(t, err)
	assert.Equal(t, []string{"flatpak-builder", "flatpak", "sh", "sh"}, f.runner.Names())
}

func TestBuildProject_Canceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orch.BuildProject(ctx, f.request(fullProject(), artifact.All))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.runner.Cmds)
}

func TestBuild_SelectsProject(t *testing.T) {
	f := newFixture(t)
	m := andafile.New()
	m.Config.StripPrefix = ptr("myorg-")
	m.Projects["myorg-app"] = &andafile.Project{Docker: fullProject().Docker, Labels: map[string]string{}}
	andafile.GenerateAliases(m)

	arts, err := f.orch.Build(context.Background(), Request{
		Manifest:  m,
		Project:   "app",
		Package:   artifact.All,
		WorkDir:   f.dir,
		TargetDir: f.target,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, arts.Len())
}

func TestBuild_Errors(t *testing.T) {
	f := newFixture(t)
	m := andafile.New()

	_, err := f.orch.Build(context.Background(), Request{Manifest: m, Package: artifact.All})
	assert.ErrorIs(t, err, ErrNoProjectSpecified)

	_, err = f.orch.Build(context.Background(), Request{Manifest: m, Project: "missing", Package: artifact.All})
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.EqualError(t, err, "project not found: missing")
}

func TestBuild_AllProjects(t *testing.T) {
	f := newFixture(t)
	m := andafile.New()
	m.Projects["b"] = &andafile.Project{Docker: &andafile.Docker{Image: map[string]*andafile.DockerImage{"b": {Context: "."}}}}
	m.Projects["a"] = &andafile.Project{Docker: &andafile.Docker{Image: map[string]*andafile.DockerImage{"a": {Context: "."}}}}
	m.Projects["c"] = &andafile.Project{Docker: &andafile.Docker{Image: map[string]*andafile.DockerImage{"c": {Context: "."}}}}
	f.runner.FailOn = nil
	f.runner.OnRun = func(cmd process.Cmd) error {
		if cmd.Args[len(cmd.Args)-2] == "c:latest" {
			return errors.New("boom")
		}
		return nil
	}

	arts, err := f.orch.Build(context.Background(), Request{
		Manifest:  m,
		All:       true,
		Project:   "ignored",
		Package:   artifact.Docker,
		WorkDir:   f.dir,
		TargetDir: f.target,
	})
	require.Error(t, err)

	assert.Equal(t, []string{
		"docker build -t a:latest .",
		"docker build -t b:latest .",
		"docker build -t c:latest .",
	}, f.runner.Lines())

	items := arts.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a:latest", items[0].Path)
	assert.Equal(t, "b:latest", items[1].Path)
}

func TestStageError_Messages(t *testing.T) {
	cause := errors.New("x")
	tests := map[artifact.PackageType]string{
		artifact.Rpm:     "Failed to build RPMs: x",
		artifact.Flatpak: "Failed to build Flatpaks: x",
		artifact.Podman:  "Failed to build Podman images: x",
		artifact.Docker:  "Failed to build Docker images: x",
	}
	for typ, want := range tests {
		assert.EqualError(t, &StageError{Type: typ, Err: cause}, want)
	}
}
