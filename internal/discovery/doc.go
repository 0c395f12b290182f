// SPDX-License-Identifier: MPL-2.0

// Package discovery locates nested anda.hcl manifests below the directory of
// the root manifest.
//
// The walk skips hidden entries and anything excluded by version-control
// ignore rules, and returns results in lexicographic path order so that the
// merge performed by the manifest loader is reproducible across filesystems.
package discovery
