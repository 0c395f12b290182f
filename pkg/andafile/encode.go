// SPDX-License-Identifier: MPL-2.0

package andafile

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders m as canonical HCL. Projects and images appear in sorted
// order and unset optional fields are omitted, so the output of Encode parses
// back into an equivalent manifest.
func Encode(m *Manifest) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if cfg := m.Config; cfg != (Config{}) {
		cb := body.AppendNewBlock("config", nil).Body()
		setString(cb, "mock_config", cfg.MockConfig)
		setString(cb, "strip_prefix", cfg.StripPrefix)
		setString(cb, "strip_suffix", cfg.StripSuffix)
		setString(cb, "project_regex", cfg.ProjectRegex)
		body.AppendNewline()
	}

	for i, name := range m.Names() {
		if i > 0 {
			body.AppendNewline()
		}
		encodeProject(body.AppendNewBlock("project", []string{name}).Body(), m.Projects[name])
	}

	return hclwrite.Format(f.Bytes())
}

func encodeProject(b *hclwrite.Body, p *Project) {
	setList(b, "alias", p.Alias)
	setMap(b, "labels", p.Labels)
	setMap(b, "env", p.Env)
	setList(b, "scripts", p.Scripts)
	setString(b, "pre_script", p.PreScript)
	setString(b, "post_script", p.PostScript)
	setString(b, "update", p.Update)

	if r := p.Rpm; r != nil {
		rb := b.AppendNewBlock("rpm", nil).Body()
		rb.SetAttributeValue("spec", cty.StringVal(r.Spec))
		setString(rb, "sources", r.Sources)
		setString(rb, "package", r.Package)
		setString(rb, "pre_script", r.PreScript)
		setString(rb, "post_script", r.PostScript)
		setBool(rb, "enable_scm", r.EnableSCM)
		setMap(rb, "scm_opts", r.SCMOpts)
		setMap(rb, "config", r.Config)
		setString(rb, "mock_config", r.MockConfig)
		setMap(rb, "plugin_opts", r.PluginOpts)
		setMap(rb, "macros", r.Macros)
		setMap(rb, "opts", r.Opts)
	}

	if fp := p.Flatpak; fp != nil {
		fb := b.AppendNewBlock("flatpak", nil).Body()
		fb.SetAttributeValue("manifest", cty.StringVal(fp.Manifest))
		setString(fb, "pre_script", fp.PreScript)
		setString(fb, "post_script", fp.PostScript)
	}

	encodeImages(b, "podman", p.Podman)
	encodeImages(b, "docker", p.Docker)
}

func encodeImages(b *hclwrite.Body, kind string, d *Docker) {
	if d == nil {
		return
	}
	db := b.AppendNewBlock(kind, nil).Body()
	for _, tag := range d.ImageTags() {
		img := d.Image[tag]
		ib := db.AppendNewBlock("image", []string{tag}).Body()
		setString(ib, "dockerfile", img.Dockerfile)
		setString(ib, "import", img.Import)
		setBool(ib, "tag_latest", img.TagLatest)
		ib.SetAttributeValue("context", cty.StringVal(img.Context))
		setString(ib, "version", img.Version)
	}
}

func setString(b *hclwrite.Body, name string, v *string) {
	if v != nil {
		b.SetAttributeValue(name, cty.StringVal(*v))
	}
}

func setBool(b *hclwrite.Body, name string, v *bool) {
	if v != nil {
		b.SetAttributeValue(name, cty.BoolVal(*v))
	}
}

func setList(b *hclwrite.Body, name string, vs []string) {
	if len(vs) == 0 {
		return
	}
	vals := make([]cty.Value, 0, len(vs))
	for _, v := range vs {
		vals = append(vals, cty.StringVal(v))
	}
	b.SetAttributeValue(name, cty.ListVal(vals))
}

func setMap(b *hclwrite.Body, name string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	vals := make(map[string]cty.Value, len(m))
	for k, v := range m {
		vals[k] = cty.StringVal(v)
	}
	b.SetAttributeValue(name, cty.MapVal(vals))
}
