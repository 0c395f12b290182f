// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidBuilder is the sentinel wrapped by InvalidBuilderError.
var ErrInvalidBuilder = errors.New("invalid rpm builder")

const (
	// Mock builds in a mock chroot.
	Mock BuilderKind = iota
	// RPMBuild builds on the host with rpmbuild.
	RPMBuild
)

type (
	// BuilderKind selects the RPM backend.
	BuilderKind int

	// InvalidBuilderError is returned for an unknown builder name.
	InvalidBuilderError struct {
		Value string
	}

	// Macro is an RPM macro definition.
	Macro struct {
		Name  string
		Value string
	}

	// Options is everything an RPM builder needs for one build. All
	// directories are absolute.
	Options struct {
		MockConfig *string
		// WorkDir is where the builder runs; spec paths are relative to it.
		WorkDir   string
		Sources   string
		TargetDir string
		NoMirror  bool
		SCMEnable bool

		SCMOpts    []string
		ConfigOpts []string
		PluginOpts []string
		ExtraRepos []string
		// Macros are kept in definition order. Redefining a macro replaces
		// its value in place.
		Macros []Macro
	}
)

// Error implements the error interface.
func (e *InvalidBuilderError) Error() string {
	return fmt.Sprintf("invalid rpm builder %q (expected mock or rpmbuild)", e.Value)
}

// Unwrap returns ErrInvalidBuilder so callers can use errors.Is for programmatic detection.
func (e *InvalidBuilderError) Unwrap() error { return ErrInvalidBuilder }

// ParseBuilderKind converts "mock" or "rpmbuild" to a BuilderKind.
func ParseBuilderKind(s string) (BuilderKind, error) {
	switch strings.ToLower(s) {
	case "mock":
		return Mock, nil
	case "rpmbuild":
		return RPMBuild, nil
	default:
		return 0, &InvalidBuilderError{Value: s}
	}
}

// String returns the builder's command-line name.
func (k BuilderKind) String() string {
	if k == RPMBuild {
		return "rpmbuild"
	}
	return "mock"
}

// Set implements pflag.Value.
func (k *BuilderKind) Set(s string) error {
	v, err := ParseBuilderKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Type implements pflag.Value.
func (k *BuilderKind) Type() string { return "builder" }

// DefineMacro sets a macro, replacing an earlier definition of the same name.
func (o *Options) DefineMacro(name, value string) {
	for i := range o.Macros {
		if o.Macros[i].Name == name {
			o.Macros[i].Value = value
			return
		}
	}
	o.Macros = append(o.Macros, Macro{Name: name, Value: value})
}

// Macro returns the value of a defined macro.
func (o *Options) Macro(name string) (string, bool) {
	for _, m := range o.Macros {
		if m.Name == name {
			return m.Value, true
		}
	}
	return "", false
}

// RPMDir is the repository directory packages are written to.
func (o *Options) RPMDir() string {
	return filepath.Join(o.TargetDir, "rpm")
}

func (m Macro) String() string {
	return m.Name + " " + m.Value
}
