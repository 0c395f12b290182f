// SPDX-License-Identifier: MPL-2.0

// Package container builds OCI images with the Docker or Podman CLI.
//
// The Engine interface covers the one operation anda needs, Build. DockerEngine
// and PodmanEngine embed BaseCLIEngine for shared argument construction and
// run every command through a process.Runner.
//
// Engine selection uses NewEngine(EngineType, ...). When the requested binary
// is missing and fallback is enabled, the other engine is used instead.
// Builder resolves an engine per image and returns the references it tagged.
package container
