// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for anda.
//
// The root command owns the global flags and loads the tool configuration
// before any subcommand runs. Subcommands receive an App reference and
// delegate to the manifest loader and the build orchestrator.
package cmd
