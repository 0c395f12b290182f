// SPDX-License-Identifier: MPL-2.0

// Package andafile provides the manifest model for anda.hcl files and the
// loader that merges a root manifest with every nested manifest below it.
//
// A manifest declares projects, each optionally carrying an RPM, Flatpak,
// Docker or Podman build definition. Nested manifests are namespaced by their
// directory relative to the root manifest: a project "foo" declared in
// "sub/anda.hcl" becomes "sub/foo", and its relative paths are rewritten to
// stay valid from the root directory.
//
// Manifests are HCL. Expressions may reference the process environment
// through the env object (for example "${env.HOME}") and call a small set of
// string functions: upper, lower, join, format, replace, trimspace and
// coalesce.
//
// The zero value of optional fields is nil; Labels is always non-nil after
// Parse or Load.
package andafile
