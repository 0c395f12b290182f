// SPDX-License-Identifier: MPL-2.0

// Package vcs wraps the few go-git operations the build tool needs: resolving
// the HEAD commit of the working tree for auto-version macros, and loading the
// version-control ignore rules honored during manifest discovery.
package vcs
