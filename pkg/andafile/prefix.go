// SPDX-License-Identifier: MPL-2.0

package andafile

import (
	"maps"
	"slices"

	"github.com/fyralabs/anda/pkg/fspath"
)

// Default filenames probed when a nested project leaves a path unset.
const (
	DefaultRpmPreScript  = "rpm_pre.rhai"
	DefaultRpmPostScript = "rpm_post.rhai"
	DefaultRpmSources    = "."
	DefaultUpdate        = "update.rhai"
	DefaultPreScript     = "pre.rhai"
	DefaultPostScript    = "post.rhai"
)

// Prefix returns a copy of m with every project renamed to prefix/name and
// every relative path rewritten to be relative to base instead of
// base/prefix. m is not modified.
//
// rpm.spec and scripts are always prefixed. Optional script and source paths
// follow the default-or-prefix rule: a set value (an empty value means the
// default filename) is prefixed; an unset value becomes prefix/default only
// when that file exists under base. Flatpak manifests and image contexts
// and dockerfiles are prefixed when set.
func Prefix(m *Manifest, base, prefix string) *Manifest {
	out := &Manifest{
		Projects: make(map[string]*Project, len(m.Projects)),
		Config:   m.Config.clone(),
	}

	for name, src := range m.Projects {
		p := src.clone()

		if p.Rpm != nil {
			p.Rpm.Spec = fspath.Join(prefix, p.Rpm.Spec)
			p.Rpm.PreScript = fspath.DefaultOrPrefix(p.Rpm.PreScript, base, prefix, DefaultRpmPreScript)
			p.Rpm.PostScript = fspath.DefaultOrPrefix(p.Rpm.PostScript, base, prefix, DefaultRpmPostScript)
			p.Rpm.Sources = fspath.DefaultOrPrefix(p.Rpm.Sources, base, prefix, DefaultRpmSources)
		}
		p.Update = fspath.DefaultOrPrefix(p.Update, base, prefix, DefaultUpdate)
		p.PreScript = fspath.DefaultOrPrefix(p.PreScript, base, prefix, DefaultPreScript)
		p.PostScript = fspath.DefaultOrPrefix(p.PostScript, base, prefix, DefaultPostScript)

		for i, s := range p.Scripts {
			p.Scripts[i] = fspath.Join(prefix, s)
		}

		if p.Flatpak != nil {
			p.Flatpak.Manifest = fspath.Join(prefix, p.Flatpak.Manifest)
			p.Flatpak.PreScript = fspath.Prefix(p.Flatpak.PreScript, prefix)
			p.Flatpak.PostScript = fspath.Prefix(p.Flatpak.PostScript, prefix)
		}
		prefixImages(p.Docker, prefix)
		prefixImages(p.Podman, prefix)

		out.Projects[fspath.Join(prefix, name)] = p
	}

	GenerateAliases(out)
	return out
}

func prefixImages(d *Docker, prefix string) {
	if d == nil {
		return
	}
	for _, img := range d.Image {
		img.Context = fspath.Join(prefix, img.Context)
		img.Dockerfile = fspath.Prefix(img.Dockerfile, prefix)
	}
}

func (c Config) clone() Config {
	return Config{
		MockConfig:   clonePtr(c.MockConfig),
		StripPrefix:  clonePtr(c.StripPrefix),
		StripSuffix:  clonePtr(c.StripSuffix),
		ProjectRegex: clonePtr(c.ProjectRegex),
	}
}

func (p *Project) clone() *Project {
	out := &Project{
		Rpm:        p.Rpm.clone(),
		Podman:     p.Podman.clone(),
		Docker:     p.Docker.clone(),
		Flatpak:    p.Flatpak.clone(),
		PreScript:  clonePtr(p.PreScript),
		PostScript: clonePtr(p.PostScript),
		Env:        maps.Clone(p.Env),
		Alias:      slices.Clone(p.Alias),
		Scripts:    slices.Clone(p.Scripts),
		Labels:     maps.Clone(p.Labels),
		Update:     clonePtr(p.Update),
	}
	if out.Labels == nil {
		out.Labels = make(map[string]string)
	}
	return out
}

func (r *RpmBuild) clone() *RpmBuild {
	if r == nil {
		return nil
	}
	return &RpmBuild{
		Spec:       r.Spec,
		Sources:    clonePtr(r.Sources),
		Package:    clonePtr(r.Package),
		PreScript:  clonePtr(r.PreScript),
		PostScript: clonePtr(r.PostScript),
		EnableSCM:  clonePtr(r.EnableSCM),
		SCMOpts:    maps.Clone(r.SCMOpts),
		Config:     maps.Clone(r.Config),
		MockConfig: clonePtr(r.MockConfig),
		PluginOpts: maps.Clone(r.PluginOpts),
		Macros:     maps.Clone(r.Macros),
		Opts:       maps.Clone(r.Opts),
	}
}

func (d *Docker) clone() *Docker {
	if d == nil {
		return nil
	}
	out := &Docker{Image: make(map[string]*DockerImage, len(d.Image))}
	for tag, img := range d.Image {
		out.Image[tag] = &DockerImage{
			Dockerfile: clonePtr(img.Dockerfile),
			Import:     clonePtr(img.Import),
			TagLatest:  clonePtr(img.TagLatest),
			Context:    img.Context,
			Version:    clonePtr(img.Version),
		}
	}
	return out
}

func (f *Flatpak) clone() *Flatpak {
	if f == nil {
		return nil
	}
	return &Flatpak{
		Manifest:   f.Manifest,
		PreScript:  clonePtr(f.PreScript),
		PostScript: clonePtr(f.PostScript),
	}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
