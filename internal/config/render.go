// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// RenderCUE renders the configuration in the config file format.
	RenderCUE = "cue"
	// RenderTOML renders the configuration as TOML.
	RenderTOML = "toml"
)

// Render formats cfg as CUE or TOML.
func Render(cfg *Config, format string) (string, error) {
	switch format {
	case RenderCUE, "":
		return GenerateCUE(cfg), nil
	case RenderTOML:
		out, err := toml.Marshal(cfg)
		if err != nil {
			return "", fmt.Errorf("rendering toml: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: cue, toml)", format)
	}
}

// GenerateCUE generates a CUE representation of the configuration that
// validates against the embedded schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// anda configuration\n\n")
	fmt.Fprintf(&sb, "target_dir: %q\n", cfg.TargetDir)

	sb.WriteString("\nrpm: {\n")
	fmt.Fprintf(&sb, "\tbuilder: %q\n", cfg.RPM.Builder)
	if cfg.RPM.MockConfig != "" {
		fmt.Fprintf(&sb, "\tmock_config: %q\n", cfg.RPM.MockConfig)
	}
	fmt.Fprintf(&sb, "\tno_mirrors: %v\n", cfg.RPM.NoMirrors)
	sb.WriteString("}\n")

	sb.WriteString("\ncontainer: {\n")
	fmt.Fprintf(&sb, "\tfallback: %v\n", cfg.Container.Fallback)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Log.Format)
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	return sb.String()
}
