// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyralabs/anda/internal/process"
	"github.com/fyralabs/anda/internal/testutil"
)

func TestParseCommands(t *testing.T) {
	t.Parallel()

	src := []byte("# setup\n\necho one\n   \n  ls -la  \n#echo skipped\n")
	assert.Equal(t, []Command{
		{Line: 3, Text: "echo one"},
		{Line: 5, Text: "ls -la"},
	}, ParseCommands(src))
}

func TestHookRunner_RunsEachLine(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"hooks/pre.sh": "echo one\n# comment\nmake -C src\n",
	})
	fake := &testutil.FakeRunner{}
	h := NewHookRunner(fake, nil)

	err := h.Run(context.Background(), Hook{
		Path: filepath.Join("hooks", "pre.sh"),
		Dir:  dir,
		Env:  map[string]string{"FOO": "bar"},
	})
	require.NoError(t, err)

	require.Len(t, fake.Cmds, 2)
	assert.Equal(t, process.Cmd{
		Name: "sh",
		Args: []string{"-x", "-c", "echo one"},
		Dir:  dir,
		Env:  []string{"FOO=bar"},
	}, fake.Cmds[0])
	assert.Equal(t, []string{"-x", "-c", "make -C src"}, fake.Cmds[1].Args)
}

func TestHookRunner_SyntaxErrorRunsNothing(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"pre.sh": "echo ok\necho \"unterminated\n",
	})
	fake := &testutil.FakeRunner{}

	err := NewHookRunner(fake, nil).Run(context.Background(), Hook{Path: "pre.sh", Dir: dir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHookSyntax))

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Line)
	assert.Empty(t, fake.Cmds)
}

func TestHookRunner_StopsOnFailure(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"post.sh": "false\necho never\n"})
	fake := &testutil.FakeRunner{FailOn: map[string]error{"sh": &process.ExitError{Name: "sh", Code: 1}}}

	err := NewHookRunner(fake, nil).Run(context.Background(), Hook{Path: "post.sh", Dir: dir})
	require.Error(t, err)
	assert.ErrorIs(t, err, process.ErrCommandFailed)
	assert.Contains(t, err.Error(), "post.sh line 1")
	assert.Len(t, fake.Cmds, 1)
}

func TestHookRunner_MissingFile(t *testing.T) {
	t.Parallel()

	err := NewHookRunner(&testutil.FakeRunner{}, nil).Run(context.Background(), Hook{Path: "nope.sh", Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading hook nope.sh")
}
