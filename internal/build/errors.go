// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"fmt"

	"github.com/fyralabs/anda/internal/artifact"
)

var (
	// ErrProjectNotFound is returned when no project label or alias matches.
	ErrProjectNotFound = errors.New("project not found")

	// ErrNoProjectSpecified is returned when neither a project nor --all was given.
	ErrNoProjectSpecified = errors.New("no project specified")

	// ErrUnsupportedPackageType is returned for package types with no pipeline.
	ErrUnsupportedPackageType = errors.New("unsupported package type")
)

type (
	// StageError wraps the failure of one backend pipeline.
	StageError struct {
		Type artifact.PackageType
		Err  error
	}

	// ProjectNotFoundError names the project that could not be resolved.
	ProjectNotFoundError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("Failed to build %s: %v", stageNoun(e.Type), e.Err)
}

// Unwrap returns the pipeline error.
func (e *StageError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.Name)
}

// Unwrap returns ErrProjectNotFound so callers can use errors.Is.
func (e *ProjectNotFoundError) Unwrap() error { return ErrProjectNotFound }

func stageNoun(t artifact.PackageType) string {
	switch t {
	case artifact.Rpm:
		return "RPMs"
	case artifact.Flatpak:
		return "Flatpaks"
	case artifact.Podman:
		return "Podman images"
	case artifact.Docker:
		return "Docker images"
	default:
		return t.Label()
	}
}

func backendName(t artifact.PackageType) string {
	switch t {
	case artifact.Rpm:
		return "RPM"
	case artifact.Flatpak:
		return "Flatpak"
	case artifact.Podman:
		return "Podman"
	case artifact.Docker:
		return "Docker"
	default:
		return t.Label()
	}
}
