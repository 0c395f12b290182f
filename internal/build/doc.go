// SPDX-License-Identifier: MPL-2.0

// Package build drives the per-project build pipelines.
//
// An Orchestrator runs the backends a project declares (RPM, Flatpak, Podman
// and Docker images) in a fixed order. Each backend runs its pre hook, the
// backend build itself and its post hook; the first failing step aborts the
// remaining backends of that project. Backend tools are reached only through
// the collaborator interfaces declared here, so tests substitute fakes.
package build
