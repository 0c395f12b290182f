// SPDX-License-Identifier: MPL-2.0

// Package config handles anda's own settings using Viper with CUE as the file format.
//
// Settings are layered, lowest precedence first: built-in defaults, a CUE file
// ($XDG_CONFIG_HOME/anda/config.cue, falling back to ./anda.config.cue),
// ANDA_* environment variables (ANDA_TARGET_DIR, ANDA_RPM_BUILDER, ...) and
// finally bound command-line flags. Files are validated against the embedded
// config_schema.cue before they are merged.
package config
