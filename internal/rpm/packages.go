// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	rpmutils "github.com/sassoftware/go-rpmutils"
)

// ErrNoSourceRPM is returned when mock --buildsrpm leaves no source package.
var ErrNoSourceRPM = errors.New("no source rpm produced")

// snapshot records the modification time of every RPM below dir. A missing
// dir yields an empty snapshot.
func snapshot(dir string) (map[string]time.Time, error) {
	seen := make(map[string]time.Time)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !isRPM(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		seen[path] = info.ModTime()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return seen, nil
}

// produced returns the RPMs below dir that are new or changed since before,
// sorted by path.
func produced(dir string, before map[string]time.Time, logger *slog.Logger) ([]string, error) {
	after, err := snapshot(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for path, mtime := range after {
		if prev, ok := before[path]; ok && prev.Equal(mtime) {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)

	for _, path := range out {
		if nevra, err := DescribePackage(path); err == nil {
			logger.Debug("produced package", "path", path, "nevra", nevra)
		} else {
			logger.Debug("produced package", "path", path, "error", err)
		}
	}
	return out, nil
}

// DescribePackage reads the RPM header at path and returns its NEVRA as
// name-[epoch:]version-release.arch.
func DescribePackage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hdr, err := rpmutils.ReadHeader(f)
	if err != nil {
		return "", fmt.Errorf("reading rpm header of %s: %w", path, err)
	}
	n, err := hdr.GetNEVRA()
	if err != nil {
		return "", fmt.Errorf("reading nevra of %s: %w", path, err)
	}

	evr := n.Version + "-" + n.Release
	if n.Epoch != "" && n.Epoch != "0" {
		evr = n.Epoch + ":" + evr
	}
	return fmt.Sprintf("%s-%s.%s", n.Name, evr, n.Arch), nil
}

func findSourceRPM(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.src.rpm"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoSourceRPM, dir)
	}
	sort.Strings(matches)
	return matches[0], nil
}

func isRPM(name string) bool {
	return strings.HasSuffix(name, ".rpm")
}
