// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyralabs/anda/pkg/fspath"
)

func strPtr(s string) *string { return &s }

func TestDefaultOrPrefix_SetValue(t *testing.T) {
	t.Parallel()

	got := fspath.DefaultOrPrefix(strPtr("build.sh"), t.TempDir(), "sub", "pre.rhai")
	require.NotNil(t, got)
	assert.Equal(t, filepath.Join("sub", "build.sh"), *got)
}

func TestDefaultOrPrefix_EmptyValueUsesDefault(t *testing.T) {
	t.Parallel()

	got := fspath.DefaultOrPrefix(strPtr(""), t.TempDir(), "sub", "pre.rhai")
	require.NotNil(t, got)
	assert.Equal(t, filepath.Join("sub", "pre.rhai"), *got)
}

func TestDefaultOrPrefix_UnsetValue(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	assert.Nil(t, fspath.DefaultOrPrefix(nil, base, "sub", "pre.rhai"))

	require.NoError(t, os.MkdirAll(filepath.Join(base, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "sub", "pre.rhai"), nil, 0o644))

	got := fspath.DefaultOrPrefix(nil, base, "sub", "pre.rhai")
	require.NotNil(t, got)
	assert.Equal(t, filepath.Join("sub", "pre.rhai"), *got)
}

func TestDefaultOrPrefix_DotDefaultMatchesDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "pkg"), 0o755))

	got := fspath.DefaultOrPrefix(nil, base, "pkg", ".")
	require.NotNil(t, got)
	assert.Equal(t, "pkg", *got)
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fspath.Prefix(nil, "sub"))
	got := fspath.Prefix(strPtr("a/b.yml"), "sub")
	require.NotNil(t, got)
	assert.Equal(t, filepath.Join("sub", "a", "b.yml"), *got)
}

func TestParentDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".", fspath.ParentDir("anda.hcl"))
	assert.Equal(t, filepath.Join("a", "b"), fspath.ParentDir(filepath.Join("a", "b", "anda.hcl")))
}

func TestExistsAndIsDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, fspath.Exists(dir))
	assert.True(t, fspath.IsDir(dir))
	assert.True(t, fspath.Exists(file))
	assert.False(t, fspath.IsDir(file))
	assert.False(t, fspath.Exists(filepath.Join(dir, "missing")))
}
