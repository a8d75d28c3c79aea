package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/tdd-playground/internal/apperror"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "impl.py", "def add(a, b):\n    return a + b\n")
	manifest := writeFile(t, dir, "bundle.yaml", `
language: python-3.11
files:
  - name: implementation.py
    path: ./impl.py
  - name: test.py
    entry_point: true
    dependencies: [implementation.py]
    content: |
      assert add(1, 2) == 3
`)

	b, err := LoadManifest(manifest)
	require.NoError(t, err)

	impl, ok := b.File("implementation.py")
	require.True(t, ok)
	assert.Equal(t, "def add(a, b):\n    return a + b\n", impl.Content)
	assert.Equal(t, "python-3.11", impl.Language)

	entry, ok := b.EntryPointFile()
	require.True(t, ok)
	assert.Equal(t, "test.py", entry.Name)
	assert.Equal(t, "assert add(1, 2) == 3\n", entry.Content)
	assert.Equal(t, []string{"implementation.py"}, entry.Dependencies)
	assert.True(t, b.IsValid())
}

func TestLoadManifest_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		yaml string
	}{
		{"no files", "language: python-3.12\n"},
		{"path and content", "files:\n  - name: a.py\n    path: a.py\n    content: x\n"},
		{"nameless", "files:\n  - content: print(1)\n"},
		{"not yaml", "files: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeFile(t, dir, "m.yaml", tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation), err)
		})
	}
}

func TestLoadManifest_MissingReferencedFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadManifest(writeFile(t, dir, "m.yaml", "files:\n  - path: gone.py\n"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBundleFromFiles(t *testing.T) {
	dir := t.TempDir()
	impl := writeFile(t, dir, "implementation.py", "x = 1\n")
	test := writeFile(t, dir, "test.py", "assert x == 1\n")

	b, err := BundleFromFiles([]string{impl, test}, "", "")
	require.NoError(t, err)

	entry, ok := b.EntryPointFile()
	require.True(t, ok)
	assert.Equal(t, "test.py", entry.Name)
	assert.Equal(t, defaultLanguage, entry.Language)
	assert.Equal(t, 2, b.Len())

	b, err = BundleFromFiles([]string{impl, test}, "implementation.py", "python-3.11")
	require.NoError(t, err)
	entry, _ = b.EntryPointFile()
	assert.Equal(t, "implementation.py", entry.Name)
	assert.Equal(t, "python-3.11", entry.Language)

	_, err = BundleFromFiles([]string{impl}, "other.py", "")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestIsManifest(t *testing.T) {
	assert.True(t, isManifest("bundle.yaml"))
	assert.True(t, isManifest("B.YML"))
	assert.False(t, isManifest("main.py"))
}
