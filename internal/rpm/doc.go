// SPDX-License-Identifier: MPL-2.0

// Package rpm builds RPM packages.
//
// Synthesizer turns a project's rpm block and command-line overrides into
// Options: mock configuration, source directory, repositories, config and
// plugin options, and macro definitions including the autogit version
// macros. Options are consumed by one of two builders, RPMBuild (plain
// rpmbuild) and Mock (a source RPM build followed by a rebuild in a mock
// chroot). After every build the output directory is indexed with
// createrepo_c so later builds in the same run can depend on earlier ones.
package rpm
