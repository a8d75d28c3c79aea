//go:build unix

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (int, string, string, error) {
	t.Helper()
	code := -100
	var stdout, stderr bytes.Buffer

	cmd := newRootCmd(func(c int) { code = c })
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return code, stdout.String(), stderr.String(), err
}

func TestRoot_EntrypointIsRequired(t *testing.T) {
	code, _, _, err := execute(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "entrypoint")
	assert.Equal(t, -100, code)
}

func TestRoot_RunsEntrypoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.sh")
	require.NoError(t, os.WriteFile(path, []byte("echo hi\nexit 4\n"), 0o644))

	code, stdout, _, err := execute(t, "--entrypoint", path, "--interpreter", "/bin/sh")

	require.NoError(t, err)
	assert.Equal(t, 4, code)
	assert.Equal(t, "hi\n", stdout)
}

func TestRoot_MissingFile(t *testing.T) {
	code, _, stderr, err := execute(t, "--entrypoint", "/code/missing.py")

	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Entry point file does not exist: /code/missing.py\n", stderr)
}
