// SPDX-License-Identifier: MPL-2.0

package flatpak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fyralabs/anda/internal/process"
)

// ErrNoAppID is returned when a manifest declares neither id nor app-id.
var ErrNoAppID = errors.New("flatpak manifest has no id")

type (
	// Options are the command-line flatpak settings.
	Options struct {
		ExtraSources    []string
		ExtraSourceURLs []string
		// KeepBuildDirs disables --delete-build-dirs.
		KeepBuildDirs bool
	}

	// Builder drives flatpak-builder. Output goes below TargetDir/flatpak:
	// build/ for the build tree, repo/ for the OSTree repository and
	// bundles/ for exported bundles.
	Builder struct {
		Runner    process.Runner
		TargetDir string
		Options   Options
		Logger    *slog.Logger
	}

	manifestHeader struct {
		ID    string `yaml:"id"`
		AppID string `yaml:"app-id"`
	}
)

// BuildDir is the flatpak-builder build directory.
func (b *Builder) BuildDir() string { return filepath.Join(b.TargetDir, "flatpak", "build") }

// RepoDir is the repository the build is exported to.
func (b *Builder) RepoDir() string { return filepath.Join(b.TargetDir, "flatpak", "repo") }

// BundleDir holds exported bundles.
func (b *Builder) BundleDir() string { return filepath.Join(b.TargetDir, "flatpak", "bundles") }

// Build runs flatpak-builder on manifest from dir and returns the app ref.
func (b *Builder) Build(ctx context.Context, manifest, dir string) (string, error) {
	path := manifest
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	ref, err := AppID(path)
	if err != nil {
		return "", err
	}

	args := []string{"--force-clean"}
	if !b.Options.KeepBuildDirs {
		args = append(args, "--delete-build-dirs")
	}
	args = append(args, "--repo="+b.RepoDir())
	for _, s := range b.Options.ExtraSources {
		args = append(args, "--extra-sources="+s)
	}
	for _, u := range b.Options.ExtraSourceURLs {
		args = append(args, "--extra-sources-url="+u)
	}
	args = append(args, b.BuildDir(), manifest)

	b.logger().Info("building flatpak", "manifest", manifest, "ref", ref)
	if err := b.Runner.Run(ctx, process.Cmd{Name: "flatpak-builder", Args: args, Dir: dir}); err != nil {
		return "", err
	}
	return ref, nil
}

// Bundle exports ref from the repository into BundleDir/REF.flatpak and
// returns the bundle path.
func (b *Builder) Bundle(ctx context.Context, ref string) (string, error) {
	if err := os.MkdirAll(b.BundleDir(), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", b.BundleDir(), err)
	}
	bundle := filepath.Join(b.BundleDir(), ref+".flatpak")

	err := b.Runner.Run(ctx, process.Cmd{
		Name: "flatpak",
		Args: []string{"build-bundle", b.RepoDir(), bundle, ref},
		Dir:  b.TargetDir,
	})
	if err != nil {
		return "", err
	}
	return bundle, nil
}

// AppID reads the application id from a flatpak manifest. JSON manifests
// are valid YAML, so both formats are handled.
func AppID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading flatpak manifest: %w", err)
	}
	var hdr manifestHeader
	if err := yaml.Unmarshal(data, &hdr); err != nil {
		return "", fmt.Errorf("parsing flatpak manifest %s: %w", path, err)
	}
	switch {
	case hdr.ID != "":
		return hdr.ID, nil
	case hdr.AppID != "":
		return hdr.AppID, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNoAppID, path)
	}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
