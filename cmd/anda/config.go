// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyralabs/anda/internal/config"
)

// newConfigCommand creates the `anda config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect anda settings",
		Long: `Inspect anda settings.

Settings are read from $XDG_CONFIG_HOME/anda/config.cue (or ./anda.config.cue),
then ANDA_* environment variables, then command-line flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			out, err := config.Render(app.cfg, format)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
	showCmd.Flags().StringVar(&format, "format", config.RenderCUE, "output format (cue, toml)")

	cfgCmd.AddCommand(showCmd)
	return cfgCmd
}
