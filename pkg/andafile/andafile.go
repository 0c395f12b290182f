// SPDX-License-Identifier: MPL-2.0

package andafile

import (
	"slices"
	"sort"
)

type (
	// Manifest is a catalog of projects plus manifest-wide settings.
	Manifest struct {
		// Projects maps a unique project name to its definition. Nested
		// projects are named "<relative-dir>/<name>".
		Projects map[string]*Project
		Config   Config
	}

	// Config holds manifest-wide settings.
	Config struct {
		MockConfig   *string `hcl:"mock_config,optional"`
		StripPrefix  *string `hcl:"strip_prefix,optional"`
		StripSuffix  *string `hcl:"strip_suffix,optional"`
		ProjectRegex *string `hcl:"project_regex,optional"`
	}

	// Project is one buildable unit. Every backend is optional and independent.
	Project struct {
		Rpm     *RpmBuild
		Podman  *Docker
		Docker  *Docker
		Flatpak *Flatpak

		PreScript  *string
		PostScript *string
		Env        map[string]string
		Alias      []string
		Scripts    []string
		Labels     map[string]string
		Update     *string
	}

	// RpmBuild describes how to build RPMs from a spec file.
	RpmBuild struct {
		Spec       string            `hcl:"spec"`
		Sources    *string           `hcl:"sources,optional"`
		Package    *string           `hcl:"package,optional"`
		PreScript  *string           `hcl:"pre_script,optional"`
		PostScript *string           `hcl:"post_script,optional"`
		EnableSCM  *bool             `hcl:"enable_scm,optional"`
		SCMOpts    map[string]string `hcl:"scm_opts,optional"`
		Config     map[string]string `hcl:"config,optional"`
		MockConfig *string           `hcl:"mock_config,optional"`
		PluginOpts map[string]string `hcl:"plugin_opts,optional"`
		Macros     map[string]string `hcl:"macros,optional"`
		Opts       map[string]string `hcl:"opts,optional"`
	}

	// Docker groups OCI image definitions keyed by image tag. It is used for
	// both the docker and podman backends.
	Docker struct {
		Image map[string]*DockerImage
	}

	// DockerImage is a single OCI image build.
	DockerImage struct {
		Dockerfile *string `hcl:"dockerfile,optional"`
		// Import is accepted for compatibility and otherwise unused.
		Import    *string `hcl:"import,optional"`
		TagLatest *bool   `hcl:"tag_latest,optional"`
		Context   string  `hcl:"context"`
		Version   *string `hcl:"version,optional"`
	}

	// Flatpak describes a flatpak-builder manifest build.
	Flatpak struct {
		Manifest   string  `hcl:"manifest"`
		PreScript  *string `hcl:"pre_script,optional"`
		PostScript *string `hcl:"post_script,optional"`
	}
)

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{Projects: make(map[string]*Project)}
}

// Names returns the project names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Projects))
	for name := range m.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProject resolves key to a project. An exact name match wins; otherwise
// the first project, in sorted name order, whose aliases contain key is
// returned.
func (m *Manifest) GetProject(key string) (*Project, bool) {
	if p, ok := m.Projects[key]; ok {
		return p, true
	}
	for _, name := range m.Names() {
		p := m.Projects[name]
		if slices.Contains(p.Alias, key) {
			return p, true
		}
	}
	return nil, false
}

// FindKey returns the name under which p is stored.
func (m *Manifest) FindKey(p *Project) (string, bool) {
	for _, name := range m.Names() {
		if m.Projects[name] == p {
			return name, true
		}
	}
	return "", false
}

// ImageTags returns the image tags of d in sorted order.
func (d *Docker) ImageTags() []string {
	if d == nil {
		return nil
	}
	tags := make([]string, 0, len(d.Image))
	for tag := range d.Image {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
