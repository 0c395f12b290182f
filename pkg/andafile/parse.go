// SPDX-License-Identifier: MPL-2.0

package andafile

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

type (
	// hclFile is the top-level shape of an anda.hcl file. Unknown top-level
	// content is tolerated.
	hclFile struct {
		Config   *Config       `hcl:"config,block"`
		Projects []*hclProject `hcl:"project,block"`
		Remain   hcl.Body      `hcl:",remain"`
	}

	hclProject struct {
		Name       string            `hcl:"name,label"`
		Rpm        *RpmBuild         `hcl:"rpm,block"`
		Podman     *hclDocker        `hcl:"podman,block"`
		Docker     *hclDocker        `hcl:"docker,block"`
		Flatpak    *Flatpak          `hcl:"flatpak,block"`
		PreScript  *string           `hcl:"pre_script,optional"`
		PostScript *string           `hcl:"post_script,optional"`
		Env        map[string]string `hcl:"env,optional"`
		Alias      []string          `hcl:"alias,optional"`
		Scripts    []string          `hcl:"scripts,optional"`
		Labels     map[string]string `hcl:"labels,optional"`
		Update     *string           `hcl:"update,optional"`
	}

	hclDocker struct {
		Images []*hclImage `hcl:"image,block"`
	}

	hclImage struct {
		Tag        string  `hcl:"tag,label"`
		Dockerfile *string `hcl:"dockerfile,optional"`
		Import     *string `hcl:"import,optional"`
		TagLatest  *bool   `hcl:"tag_latest,optional"`
		Context    string  `hcl:"context"`
		Version    *string `hcl:"version,optional"`
	}
)

// ParseFile reads and parses a single manifest file without nested discovery.
func ParseFile(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidManifestError{Path: path, Detail: err.Error()}
	}
	return Parse(src, path)
}

// Parse decodes HCL source into a Manifest and generates aliases from the
// manifest's strip_prefix and strip_suffix settings. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (*Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &InvalidManifestError{Path: filename, Detail: diags.Error()}
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, EvalContext(), &raw); diags.HasErrors() {
		return nil, &InvalidManifestError{Path: filename, Detail: diags.Error()}
	}

	m := New()
	if raw.Config != nil {
		m.Config = *raw.Config
	}

	for _, rp := range raw.Projects {
		if _, dup := m.Projects[rp.Name]; dup {
			return nil, &InvalidManifestError{
				Path:   filename,
				Detail: fmt.Sprintf("project %q is declared more than once", rp.Name),
			}
		}
		p, err := rp.toProject()
		if err != nil {
			return nil, &InvalidManifestError{Path: filename, Detail: err.Error()}
		}
		m.Projects[rp.Name] = p
	}

	GenerateAliases(m)
	return m, nil
}

// EvalContext returns the evaluation context manifests are decoded with: the
// env object holding the current process environment and the string
// function table.
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(os.Environ()),
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"join":      stdlib.JoinFunc,
			"format":    stdlib.FormatFunc,
			"replace":   stdlib.ReplaceFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"coalesce":  stdlib.CoalesceFunc,
		},
	}
}

func envObject(environ []string) cty.Value {
	vals := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}

func (rp *hclProject) toProject() (*Project, error) {
	p := &Project{
		Rpm:        rp.Rpm,
		Flatpak:    rp.Flatpak,
		PreScript:  rp.PreScript,
		PostScript: rp.PostScript,
		Env:        rp.Env,
		Alias:      rp.Alias,
		Scripts:    rp.Scripts,
		Labels:     rp.Labels,
		Update:     rp.Update,
	}
	if p.Labels == nil {
		p.Labels = make(map[string]string)
	}

	var err error
	if p.Podman, err = rp.Podman.toDocker(rp.Name, "podman"); err != nil {
		return nil, err
	}
	if p.Docker, err = rp.Docker.toDocker(rp.Name, "docker"); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *hclDocker) toDocker(project, kind string) (*Docker, error) {
	if d == nil {
		return nil, nil
	}
	out := &Docker{Image: make(map[string]*DockerImage, len(d.Images))}
	for _, img := range d.Images {
		if _, dup := out.Image[img.Tag]; dup {
			return nil, fmt.Errorf("project %q: %s image %q is declared more than once", project, kind, img.Tag)
		}
		out.Image[img.Tag] = &DockerImage{
			Dockerfile: img.Dockerfile,
			Import:     img.Import,
			TagLatest:  img.TagLatest,
			Context:    img.Context,
			Version:    img.Version,
		}
	}
	return out, nil
}
