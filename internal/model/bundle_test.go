package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/tdd-playground/internal/model"
)

func pyFile(name string, entry bool, deps ...string) model.CodeFile {
	return model.CodeFile{
		Name:         name,
		Content:      "print('x')",
		Language:     "python-3.12",
		Dependencies: deps,
		IsEntryPoint: entry,
	}
}

func TestCodeBundle_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		files []model.CodeFile
		want  bool
	}{
		{name: "empty bundle", files: nil, want: false},
		{name: "no entry point", files: []model.CodeFile{pyFile("a.py", false)}, want: false},
		{name: "single entry", files: []model.CodeFile{pyFile("main.py", true)}, want: true},
		{
			name:  "closed dependency graph",
			files: []model.CodeFile{pyFile("implementation.py", false), pyFile("test.py", true, "implementation.py")},
			want:  true,
		},
		{
			name:  "dangling dependency",
			files: []model.CodeFile{pyFile("test.py", true, "missing.py")},
			want:  false,
		},
		{
			name:  "dangling dependency on non-entry file",
			files: []model.CodeFile{pyFile("main.py", true), pyFile("lib.py", false, "ghost.py")},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := model.NewCodeBundle()
			for _, f := range tt.files {
				b.AddFile(f)
			}
			assert.Equal(t, tt.want, b.IsValid())
		})
	}
}

func TestCodeBundle_ZeroValueIsUsable(t *testing.T) {
	var b model.CodeBundle
	assert.False(t, b.IsValid())

	b.AddFile(pyFile("main.py", true))
	assert.True(t, b.IsValid())
}

func TestCodeBundle_AddFile(t *testing.T) {
	t.Run("entry point is tracked", func(t *testing.T) {
		b := model.NewCodeBundle()
		b.AddFile(pyFile("lib.py", false))
		b.AddFile(pyFile("main.py", true))

		entry, ok := b.EntryPointFile()
		require.True(t, ok)
		assert.Equal(t, "main.py", entry.Name)
	})

	t.Run("new entry point clears the old flag", func(t *testing.T) {
		b := model.NewCodeBundle()
		b.AddFile(pyFile("first.py", true))
		b.AddFile(pyFile("second.py", true))

		assert.Equal(t, "second.py", b.EntryPoint)
		first, _ := b.File("first.py")
		assert.False(t, first.IsEntryPoint)

		flagged := 0
		for _, f := range b.Files() {
			if f.IsEntryPoint {
				flagged++
			}
		}
		assert.Equal(t, 1, flagged)
	})

	t.Run("overwrite keeps insertion position", func(t *testing.T) {
		b := model.NewCodeBundle()
		b.AddFile(pyFile("a.py", false))
		b.AddFile(pyFile("b.py", true))

		replacement := pyFile("a.py", false)
		replacement.Content = "x = 2"
		b.AddFile(replacement)

		files := b.Files()
		require.Len(t, files, 2)
		assert.Equal(t, "a.py", files[0].Name)
		assert.Equal(t, "x = 2", files[0].Content)
		assert.Equal(t, 2, b.Len())
	})

	t.Run("caller slice is not aliased", func(t *testing.T) {
		deps := []string{"lib.py"}
		b := model.NewCodeBundle()
		b.AddFile(pyFile("lib.py", false))
		b.AddFile(pyFile("main.py", true, deps...))

		deps[0] = "ghost.py"
		assert.True(t, b.IsValid())
	})
}

func TestCodeBundle_EntryPointFile_Missing(t *testing.T) {
	b := model.NewCodeBundle()
	_, ok := b.EntryPointFile()
	assert.False(t, ok)
}

func TestCodeBundle_DependenciesOf(t *testing.T) {
	b := model.NewCodeBundle()
	b.AddFile(pyFile("implementation.py", false))
	b.AddFile(pyFile("helpers.py", false))
	b.AddFile(pyFile("test.py", true, "implementation.py", "missing.py", "helpers.py"))

	deps := b.DependenciesOf("test.py")
	require.Len(t, deps, 2)
	assert.Equal(t, "implementation.py", deps[0].Name)
	assert.Equal(t, "helpers.py", deps[1].Name)

	assert.Empty(t, b.DependenciesOf("nope.py"))
}

func TestCodeBundle_SetContent(t *testing.T) {
	b := model.NewCodeBundle()
	b.AddFile(pyFile("main.py", true))

	assert.True(t, b.SetContent("main.py", "print(1)"))
	f, _ := b.File("main.py")
	assert.Equal(t, "print(1)", f.Content)

	assert.False(t, b.SetContent("other.py", "x"))
}

func TestLanguageFamily(t *testing.T) {
	assert.Equal(t, "python", model.CodeFile{Language: "python-3.12"}.LanguageFamily())
	assert.Equal(t, "javascript", model.CodeFile{Language: "JavaScript"}.LanguageFamily())
	assert.Equal(t, "", model.CodeFile{}.LanguageFamily())
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "py", model.FileExtension("python-3.12"))
	assert.Equal(t, "js", model.FileExtension("javascript"))
	assert.Equal(t, "cpp", model.FileExtension("CPP"))
	assert.Equal(t, "txt", model.FileExtension("brainfuck"))
}

func TestExecutionResult_JSON(t *testing.T) {
	t.Run("no error encodes as null", func(t *testing.T) {
		data, err := json.Marshal(model.ExecutionResult{Stdout: "hi\n"})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"error":null`)
		assert.Contains(t, string(data), `"exit_code":0`)
	})

	t.Run("error kind encodes as string", func(t *testing.T) {
		data, err := json.Marshal(model.Failed(model.ErrorTimeout, "slow"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"error":"timeout"`)
		assert.Contains(t, string(data), `"exit_code":-1`)
	})
}
