// SPDX-License-Identifier: MPL-2.0

// Package process runs external build tools.
//
// Every backend (rpmbuild, mock, createrepo_c, flatpak-builder, docker,
// podman and hook shells) goes through the Runner interface so that tests can
// substitute a recording fake. Commands always carry their working directory
// explicitly; nothing in anda changes the process-wide current directory.
package process
