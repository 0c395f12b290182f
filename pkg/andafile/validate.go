// SPDX-License-Identifier: MPL-2.0

package andafile

import (
	"fmt"
	"regexp"
	"strings"
)

// Validate checks a loaded manifest for problems that the HCL schema cannot
// express. All problems are reported together as a *MultipleError.
//
// project_regex is compiled to surface syntax errors early but is not used to
// reject project names.
func Validate(m *Manifest) error {
	var errs []error

	if re := m.Config.ProjectRegex; re != nil {
		if _, err := regexp.Compile(*re); err != nil {
			errs = append(errs, &InvalidManifestError{Detail: fmt.Sprintf("config.project_regex: %v", err)})
		}
	}

	for _, name := range m.Names() {
		p := m.Projects[name]
		if strings.TrimSpace(name) == "" {
			errs = append(errs, &InvalidManifestError{Detail: "project name must not be empty"})
		}
		if p.Rpm != nil && strings.TrimSpace(p.Rpm.Spec) == "" {
			errs = append(errs, &InvalidManifestError{Detail: fmt.Sprintf("project %q: rpm.spec must not be empty", name)})
		}
		if p.Flatpak != nil && strings.TrimSpace(p.Flatpak.Manifest) == "" {
			errs = append(errs, &InvalidManifestError{Detail: fmt.Sprintf("project %q: flatpak.manifest must not be empty", name)})
		}
		errs = append(errs, validateImages(name, "docker", p.Docker)...)
		errs = append(errs, validateImages(name, "podman", p.Podman)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return &MultipleError{Errors: errs}
}

func validateImages(project, kind string, d *Docker) []error {
	var errs []error
	for _, tag := range d.ImageTags() {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, &InvalidManifestError{Detail: fmt.Sprintf("project %q: %s image tag must not be empty", project, kind)})
		}
		if strings.TrimSpace(d.Image[tag].Context) == "" {
			errs = append(errs, &InvalidManifestError{Detail: fmt.Sprintf("project %q: %s image %q: context must not be empty", project, kind, tag)})
		}
	}
	return errs
}
