// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"testing"

	"cuelang.org/go/cue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
#Config: close({
	name?:  string
	count?: int & >=0
	mode?:  "fast" | "slow"
	nested?: close({
		flag?: bool
	})
})
`

func TestCompile(t *testing.T) {
	t.Parallel()

	v, err := Compile([]byte(testSchema), []byte(`name: "x", count: 2`), "#Config")
	require.NoError(t, err)

	name, err := v.LookupPath(cue.ParsePath("name")).String()
	require.NoError(t, err)
	assert.Equal(t, "x", name)
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		contains []string
	}{
		{name: "syntax error", data: `name: "x`, contains: []string{"test.cue"}},
		{name: "wrong type", data: `count: "many"`, contains: []string{"test.cue", "count"}},
		{name: "constraint", data: `count: -1`, contains: []string{"count"}},
		{name: "closed struct", data: `unknown: 1`, contains: []string{"unknown"}},
		{name: "nested field", data: `nested: flag: "yes"`, contains: []string{"flag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile([]byte(testSchema), []byte(tt.data), "#Config", WithFilename("test.cue"))
			require.Error(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestCompile_MaxFileSize(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(testSchema), []byte(`name: "abcdef"`), "#Config", WithMaxFileSize(4))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestCompile_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(testSchema), []byte(`name: "x"`), "#Other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#Other")
}

func TestCompile_Concrete(t *testing.T) {
	t.Parallel()

	schema := `#Config: { name: string }`
	_, err := Compile([]byte(schema), []byte(`{}`), "#Config")
	require.NoError(t, err)

	_, err = Compile([]byte(schema), []byte(`{}`), "#Config", WithConcrete())
	assert.Error(t, err)
}

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	m, err := DecodeMap([]byte(testSchema), []byte("mode: \"slow\"\nnested: flag: true\n"), "#Config")
	require.NoError(t, err)
	assert.Equal(t, "slow", m["mode"])
	assert.Equal(t, map[string]any{"flag": true}, m["nested"])
}
