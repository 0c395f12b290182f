// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyralabs/anda/internal/artifact"
	"github.com/fyralabs/anda/pkg/andafile"
)

func newListCommand(app *App, global *globalFlags) *cobra.Command {
	var asHCL bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the projects of the merged manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, err := andafile.Load(cmd.Context(), global.manifest, andafile.WithLogger(app.logger))
			if err != nil {
				return err
			}
			if asHCL {
				_, err = app.stdout.Write(andafile.Encode(manifest))
				return err
			}
			app.listProjects(manifest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHCL, "hcl", false, "print the merged manifest as HCL")
	return cmd
}

func (a *App) listProjects(m *andafile.Manifest) {
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(a.stdout, SubtitleStyle.Render("No projects defined"))
		return
	}

	for _, name := range names {
		p := m.Projects[name]

		line := TitleStyle.Render(name)
		if backends := projectBackends(p); len(backends) > 0 {
			line += " " + CmdStyle.Render("["+strings.Join(backends, ", ")+"]")
		}
		fmt.Fprintln(a.stdout, line)

		if len(p.Alias) > 0 {
			fmt.Fprintln(a.stdout, SubtitleStyle.Render("  aliases: ")+strings.Join(p.Alias, ", "))
		}
		if len(p.Labels) > 0 {
			labels := make([]string, 0, len(p.Labels))
			for _, k := range slices.Sorted(maps.Keys(p.Labels)) {
				labels = append(labels, k+"="+p.Labels[k])
			}
			fmt.Fprintln(a.stdout, SubtitleStyle.Render("  labels: ")+strings.Join(labels, ", "))
		}
	}
}

// projectBackends names the declared backends in build order.
func projectBackends(p *andafile.Project) []string {
	var out []string
	if p.Rpm != nil {
		out = append(out, artifact.Rpm.String())
	}
	if p.Flatpak != nil {
		out = append(out, artifact.Flatpak.String())
	}
	if p.Podman != nil {
		out = append(out, artifact.Podman.String())
	}
	if p.Docker != nil {
		out = append(out, artifact.Docker.String())
	}
	return out
}
