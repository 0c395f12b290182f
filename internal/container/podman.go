// SPDX-License-Identifier: MPL-2.0

package container

import "github.com/fyralabs/anda/internal/process"

// PodmanEngine implements the Engine interface using the Podman CLI.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a new Podman engine.
func NewPodmanEngine(binaryPath string, runner process.Runner) *PodmanEngine {
	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(EngineTypePodman.String(), binaryPath, runner),
	}
}
