// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrInvalidPackageType is the sentinel wrapped by InvalidPackageTypeError.
var ErrInvalidPackageType = errors.New("invalid package type")

// Package types. All is a selector only and never tags an artifact.
const (
	Rpm PackageType = iota
	Docker
	Podman
	Flatpak
	RpmOstree
	All
)

type (
	// PackageType identifies a build backend.
	PackageType int

	// InvalidPackageTypeError is returned by ParsePackageType for unknown words.
	InvalidPackageTypeError struct {
		Value string
	}

	// Artifact is one build output.
	Artifact struct {
		// Path is a file path or, for images and flatpak refs, a reference.
		Path string
		Type PackageType
	}

	// Artifacts is an append-only, insertion-ordered list of build outputs.
	Artifacts struct {
		items []Artifact
	}
)

var packageTypeNames = map[PackageType]string{
	Rpm:       "rpm",
	Docker:    "docker",
	Podman:    "podman",
	Flatpak:   "flatpak",
	RpmOstree: "rpm-ostree",
	All:       "all",
}

// Error implements the error interface.
func (e *InvalidPackageTypeError) Error() string {
	return fmt.Sprintf("invalid package type %q (expected one of: %s)", e.Value, strings.Join(PackageTypeNames(), ", "))
}

// Unwrap returns ErrInvalidPackageType so callers can use errors.Is for programmatic detection.
func (e *InvalidPackageTypeError) Unwrap() error { return ErrInvalidPackageType }

// PackageTypeNames returns the accepted command-line words in declaration order.
func PackageTypeNames() []string {
	names := make([]string, 0, len(packageTypeNames))
	for t := Rpm; t <= All; t++ {
		names = append(names, packageTypeNames[t])
	}
	return names
}

// ParsePackageType converts a command-line word into a PackageType.
func ParsePackageType(s string) (PackageType, error) {
	for t, name := range packageTypeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, &InvalidPackageTypeError{Value: s}
}

// String returns the command-line word for t.
func (t PackageType) String() string {
	if name, ok := packageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PackageType(%d)", int(t))
}

// Label returns the human-readable name used in build reports.
func (t PackageType) Label() string {
	switch t {
	case Rpm:
		return "RPM"
	case Docker:
		return "Docker image"
	case Podman:
		return "Podman image"
	case Flatpak:
		return "flatpak"
	case RpmOstree:
		return "rpm-ostree compose"
	default:
		return t.String()
	}
}

// Set implements pflag.Value so PackageType can be bound to a flag directly.
func (t *PackageType) Set(s string) error {
	v, err := ParsePackageType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Type implements pflag.Value.
func (t *PackageType) Type() string { return "type" }

// New returns an empty artifact list.
func New() *Artifacts {
	return &Artifacts{}
}

// Add appends an artifact. All is rejected with a panic since it is never a
// valid artifact type.
func (a *Artifacts) Add(path string, t PackageType) {
	if t == All {
		panic("artifact: All is not an artifact type")
	}
	a.items = append(a.items, Artifact{Path: path, Type: t})
}

// Append adds every artifact of other, preserving order.
func (a *Artifacts) Append(other *Artifacts) {
	if other == nil {
		return
	}
	a.items = append(a.items, other.items...)
}

// Items returns a copy of the artifacts in insertion order.
func (a *Artifacts) Items() []Artifact {
	if a == nil {
		return nil
	}
	return append([]Artifact(nil), a.items...)
}

// Len returns the number of artifacts.
func (a *Artifacts) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// ReportLine renders "Built <label>: <path>", adding the file size when
// the artifact is a file on disk.
func (a Artifact) ReportLine() string {
	line := fmt.Sprintf("Built %s: %s", a.Type.Label(), a.Path)
	if info, err := os.Stat(a.Path); err == nil && info.Mode().IsRegular() {
		line += fmt.Sprintf(" (%s)", humanize.IBytes(uint64(info.Size())))
	}
	return line
}
