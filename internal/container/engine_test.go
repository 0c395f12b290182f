// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyralabs/anda/internal/testutil"
)

func lookPathOnly(available ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, a := range available {
			if a == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name      string
		kind      EngineType
		available []string
		fallback  bool
		wantName  string
		wantErr   bool
	}{
		{name: "podman present", kind: EngineTypePodman, available: []string{"podman", "docker"}, fallback: true, wantName: "podman"},
		{name: "docker present", kind: EngineTypeDocker, available: []string{"docker"}, fallback: false, wantName: "docker"},
		{name: "podman falls back to docker", kind: EngineTypePodman, available: []string{"docker"}, fallback: true, wantName: "docker"},
		{name: "docker falls back to podman", kind: EngineTypeDocker, available: []string{"podman"}, fallback: true, wantName: "podman"},
		{name: "fallback disabled", kind: EngineTypePodman, available: []string{"docker"}, fallback: false, wantErr: true},
		{name: "nothing installed", kind: EngineTypeDocker, fallback: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(tt.kind, &testutil.FakeRunner{},
				WithLookPath(lookPathOnly(tt.available...)),
				WithFallback(tt.fallback))

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrEngineNotAvailable)
				var nae *EngineNotAvailableError
				require.ErrorAs(t, err, &nae)
				assert.Equal(t, tt.kind, nae.Engine)
				assert.Equal(t, tt.fallback, nae.Fallback)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, engine.Name())
		})
	}
}

func TestNewEngine_InvalidType(t *testing.T) {
	_, err := NewEngine("lxc", &testutil.FakeRunner{}, WithLookPath(lookPathOnly("lxc")))
	assert.ErrorIs(t, err, ErrInvalidEngineType)
}

func TestEngineNotAvailableError_Message(t *testing.T) {
	err := &EngineNotAvailableError{Engine: EngineTypePodman, Fallback: true}
	assert.Equal(t, "container engine 'podman' is not available, and docker fallback is also not available", err.Error())

	err = &EngineNotAvailableError{Engine: EngineTypeDocker}
	assert.Equal(t, "container engine 'docker' is not available", err.Error())
}

func TestParseEngineType(t *testing.T) {
	kind, err := ParseEngineType("docker")
	require.NoError(t, err)
	assert.Equal(t, EngineTypeDocker, kind)

	_, err = ParseEngineType("Docker")
	assert.ErrorIs(t, err, ErrInvalidEngineType)
}

func TestBaseCLIEngine_BuildArgs(t *testing.T) {
	e := NewPodmanEngine("/usr/bin/podman", &testutil.FakeRunner{})

	tests := []struct {
		name string
		opts BuildOptions
		want []string
	}{
		{
			name: "context only",
			opts: BuildOptions{ContextDir: ".", Tags: []string{"app:latest"}},
			want: []string{"build", "-t", "app:latest", "."},
		},
		{
			name: "dockerfile is not joined to context",
			opts: BuildOptions{ContextDir: "images/app", Dockerfile: "images/app/Containerfile", Tags: []string{"app:1.2", "app:latest"}},
			want: []string{"build", "-t", "app:1.2", "-t", "app:latest", "-f", "images/app/Containerfile", "images/app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.BuildArgs(tt.opts))
		})
	}
}

func TestBaseCLIEngine_Build(t *testing.T) {
	runner := &testutil.FakeRunner{}
	e := NewDockerEngine("/usr/bin/docker", runner)

	err := e.Build(context.Background(), BuildOptions{ContextDir: ".", Tags: []string{"app:latest"}, Dir: "/src"})
	require.NoError(t, err)

	require.Len(t, runner.Cmds, 1)
	assert.Equal(t, "docker", runner.Cmds[0].Name)
	assert.Equal(t, "/src", runner.Cmds[0].Dir)
	assert.Equal(t, "/usr/bin/docker", e.BinaryPath())
}

func TestBaseCLIEngine_BuildValidates(t *testing.T) {
	runner := &testutil.FakeRunner{}
	e := NewDockerEngine("/usr/bin/docker", runner)

	err := e.Build(context.Background(), BuildOptions{Tags: []string{"app:latest"}})
	assert.ErrorIs(t, err, ErrNoContext)

	err = e.Build(context.Background(), BuildOptions{ContextDir: "."})
	assert.ErrorIs(t, err, ErrNoTags)

	assert.Empty(t, runner.Cmds)
}

func TestBaseCLIEngine_BuildFailure(t *testing.T) {
	cause := errors.New("exit status 1")
	runner := &testutil.FakeRunner{FailOn: map[string]error{"podman": cause}}
	e := NewPodmanEngine("/usr/bin/podman", runner)

	err := e.Build(context.Background(), BuildOptions{ContextDir: "ctx", Tags: []string{"app:latest"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to build container image: app:latest")
}
