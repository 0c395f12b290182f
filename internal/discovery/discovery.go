// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fyralabs/anda/internal/vcs"
)

// ManifestFileName is the fixed manifest filename looked up at every level.
const ManifestFileName = "anda.hcl"

type (
	// DiscoveredFile is a nested manifest found during the walk.
	DiscoveredFile struct {
		// Path is the manifest path, rooted the same way as the walk root.
		Path string
		// RelDir is the manifest's directory relative to the walk root. It is
		// the namespace prefix applied to the manifest's projects.
		RelDir string
	}

	// Discovery walks a project tree looking for manifests.
	Discovery struct {
		root     string
		filename string
		exclude  string
		logger   *slog.Logger
	}

	// Option configures a Discovery.
	Option func(*Discovery)
)

// WithFilename overrides the manifest filename (ManifestFileName by default).
func WithFilename(name string) Option {
	return func(d *Discovery) { d.filename = name }
}

// WithExclude skips one specific file, normally the root manifest itself.
func WithExclude(path string) Option {
	return func(d *Discovery) { d.exclude = path }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discovery) { d.logger = logger }
}

// New creates a Discovery rooted at root.
func New(root string, opts ...Option) *Discovery {
	d := &Discovery{
		root:     root,
		filename: ManifestFileName,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Manifests returns every nested manifest under the root, sorted by path.
func (d *Discovery) Manifests() ([]DiscoveredFile, error) {
	ignore, err := vcs.LoadIgnoreMatcher(d.root)
	if err != nil {
		return nil, err
	}

	excludeAbs := ""
	if d.exclude != "" {
		if excludeAbs, err = filepath.Abs(d.exclude); err != nil {
			return nil, fmt.Errorf("resolving %s: %w", d.exclude, err)
		}
	}

	var found []DiscoveredFile
	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if isHidden(entry.Name()) || ignore.Match(rel, entry.IsDir()) {
			if entry.IsDir() {
				d.logger.Debug("skipping ignored directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() || entry.Name() != d.filename {
			return nil
		}

		if excludeAbs != "" {
			if abs, aerr := filepath.Abs(path); aerr == nil && abs == excludeAbs {
				return nil
			}
		}

		found = append(found, DiscoveredFile{Path: path, RelDir: filepath.Dir(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", d.root, err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	d.logger.Debug("nested manifests discovered", "root", d.root, "count", len(found))
	return found, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
