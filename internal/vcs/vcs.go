// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ShortCommitLen is the number of hex characters kept from a commit hash when
// it is embedded in a version string.
const ShortCommitLen = 8

// HeadCommit returns the full hash of HEAD for the repository enclosing dir.
// The boolean is false when dir is not inside a git repository or HEAD cannot
// be resolved (for example an empty repository).
func HeadCommit(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	ref, err := repo.Head()
	if err != nil {
		return "", false
	}
	return ref.Hash().String(), true
}

// ShortCommit truncates a commit hash to ShortCommitLen characters.
func ShortCommit(commit string) string {
	if len(commit) <= ShortCommitLen {
		return commit
	}
	return commit[:ShortCommitLen]
}

// IgnoreMatcher decides whether a path below a walk root is excluded by
// version-control ignore rules.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// LoadIgnoreMatcher reads every .gitignore below root (plus the repository's
// info/exclude and the user's global excludes file, when present) and returns a
// matcher for paths under root.
func LoadIgnoreMatcher(root string) (*IgnoreMatcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving walk root: %w", err)
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(abs), nil)
	if err != nil {
		return nil, fmt.Errorf("reading ignore patterns under %s: %w", abs, err)
	}

	// A missing or unreadable global excludes file is not an error.
	if global, gerr := gitignore.LoadGlobalPatterns(osfs.New("/")); gerr == nil {
		patterns = append(global, patterns...)
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

// Match reports whether rel (a path relative to the walk root, using the OS
// separator) is ignored.
func (m *IgnoreMatcher) Match(rel string, isDir bool) bool {
	if m == nil || rel == "" || rel == "." {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	return m.matcher.Match(parts, isDir)
}
