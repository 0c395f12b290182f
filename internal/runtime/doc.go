// SPDX-License-Identifier: MPL-2.0

// Package runtime runs project hook files.
//
// A hook file is plain text: every non-blank line that does not start with
// '#' is one shell command. Lines are syntax-checked with mvdan.cc/sh before
// anything runs, then executed in order with "sh -x -c LINE" in the manifest
// root directory, with the project's env entries layered over the process
// environment. The first failing line stops the hook.
package runtime
