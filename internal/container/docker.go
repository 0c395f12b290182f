// SPDX-License-Identifier: MPL-2.0

package container

import "github.com/fyralabs/anda/internal/process"

// DockerEngine implements the Engine interface using the Docker CLI.
type DockerEngine struct {
	*BaseCLIEngine
}

// NewDockerEngine creates a new Docker engine.
func NewDockerEngine(binaryPath string, runner process.Runner) *DockerEngine {
	return &DockerEngine{
		BaseCLIEngine: NewBaseCLIEngine(EngineTypeDocker.String(), binaryPath, runner),
	}
}
