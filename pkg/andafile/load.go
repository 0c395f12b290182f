// SPDX-License-Identifier: MPL-2.0

package andafile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fyralabs/anda/internal/discovery"
	"github.com/fyralabs/anda/pkg/fspath"
)

type (
	// LoadOption configures Load.
	LoadOption func(*loader)

	loader struct {
		logger *slog.Logger
	}
)

// WithLogger sets the logger Load reports merge collisions to.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(l *loader) { l.logger = logger }
}

// Load reads the root manifest at rootPath, merges every nested anda.hcl
// found below its directory, and validates the result.
//
// Nested manifests are visited in lexicographic path order. A nested project
// whose prefixed name collides with an existing one replaces it, and the
// collision is logged at warn level. Only projects are merged: config blocks
// of nested manifests apply to their own file only.
func Load(ctx context.Context, rootPath string, opts ...LoadOption) (*Manifest, error) {
	l := &loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}

	src, err := os.ReadFile(rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, rootPath)
		}
		return nil, &InvalidManifestError{Path: rootPath, Detail: err.Error()}
	}

	root, err := Parse(src, rootPath)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loaded manifest", "path", rootPath, "projects", len(root.Projects))

	rootDir := fspath.ParentDir(rootPath)
	origin := make(map[string]string, len(root.Projects))
	for name := range root.Projects {
		origin[name] = rootPath
	}

	nested, err := discovery.New(rootDir,
		discovery.WithExclude(rootPath),
		discovery.WithLogger(l.logger),
	).Manifests()
	if err != nil {
		return nil, &InvalidManifestError{Path: rootDir, Detail: err.Error()}
	}

	for _, f := range nested {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := ParseFile(f.Path)
		if err != nil {
			return nil, err
		}
		m = Prefix(m, rootDir, f.RelDir)
		l.logger.Debug("merging nested manifest", "path", f.Path, "prefix", f.RelDir, "projects", len(m.Projects))

		for _, name := range m.Names() {
			if prev, ok := origin[name]; ok {
				l.logger.Warn("project redefined by nested manifest",
					"project", name, "previous", prev, "replacement", f.Path)
			}
			root.Projects[name] = m.Projects[name]
			origin[name] = f.Path
		}
	}

	GenerateAliases(root)
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}
