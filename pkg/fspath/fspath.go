// SPDX-License-Identifier: MPL-2.0

// Package fspath resolves conventional file locations inside a project tree.
//
// Paths handed around by the manifest loader are relative to the directory of
// the root anda.hcl. Helpers here join them with path/filepath instead of
// string formatting, and probe the filesystem without mutating it.
package fspath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Join wraps filepath.Join.
func Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Exists reports whether anything (file or directory) exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Abs wraps filepath.Abs.
func Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return abs, nil
}

// ParentDir returns the directory holding path, or "." when path has no
// directory component.
func ParentDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}

// DefaultOrPrefix applies the default-or-prefix rule to an optional path field
// that is being relocated under prefix.
//
// A set value is rewritten to prefix/value, with an empty value first replaced
// by defaultName. An unset value becomes prefix/defaultName only when that file
// exists under base; otherwise it stays unset.
func DefaultOrPrefix(value *string, base, prefix, defaultName string) *string {
	if value != nil {
		v := *value
		if v == "" {
			v = defaultName
		}
		out := Join(prefix, v)
		return &out
	}

	candidate := Join(prefix, defaultName)
	if Exists(Join(base, candidate)) {
		return &candidate
	}
	return nil
}

// Prefix relocates an optional path under prefix without any default
// substitution. Nil stays nil.
func Prefix(value *string, prefix string) *string {
	if value == nil {
		return nil
	}
	out := Join(prefix, *value)
	return &out
}
