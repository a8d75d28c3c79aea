package security_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/executor/security"
	"github.com/sakif/tdd-playground/internal/model"
)

func bundleOf(files ...model.CodeFile) *model.CodeBundle {
	b := model.NewCodeBundle()
	for _, f := range files {
		b.AddFile(f)
	}
	return b
}

func entry(name, language, content string) model.CodeFile {
	return model.CodeFile{Name: name, Language: language, Content: content, IsEntryPoint: true}
}

func TestValidate_Structure(t *testing.T) {
	v := security.NewValidator(nil)

	tests := []struct {
		name   string
		bundle *model.CodeBundle
	}{
		{name: "nil bundle", bundle: nil},
		{name: "empty bundle", bundle: model.NewCodeBundle()},
		{name: "no entry point", bundle: bundleOf(model.CodeFile{Name: "a.py", Language: "python"})},
		{
			name: "dangling dependency",
			bundle: bundleOf(model.CodeFile{
				Name: "test.py", Language: "python", IsEntryPoint: true, Dependencies: []string{"implementation.py"},
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.bundle)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
			assert.Equal(t, security.InvalidBundleMessage, err.Error())
		})
	}
}

func TestValidate_EveryDefaultPatternIsRejected(t *testing.T) {
	v := security.NewValidator(nil)

	for family, patterns := range security.DefaultDenyList() {
		for _, pattern := range patterns {
			t.Run(family+"/"+pattern, func(t *testing.T) {
				err := v.Validate(bundleOf(entry("main", family, "x = 1\n"+pattern+"\n")))
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperror.ErrValidation))
				assert.Contains(t, err.Error(), "main")
				assert.Contains(t, err.Error(), pattern)
			})
		}
	}
}

func TestValidate_FirstViolationWins(t *testing.T) {
	v := security.NewValidator(nil)

	b := bundleOf(
		model.CodeFile{Name: "implementation.py", Language: "python-3.12", Content: "eval('1')\nimport os"},
		model.CodeFile{Name: "test.py", Language: "python-3.12", Content: "import sys", IsEntryPoint: true},
	)

	err := v.Validate(b)
	require.Error(t, err)
	// "import os" precedes "eval(" in the pattern list, and implementation.py was added first.
	assert.Equal(t, "File implementation.py contains potentially dangerous operation: import os", err.Error())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "implementation.py", appErr.Field)
}

func TestValidate_VersionedLanguageTag(t *testing.T) {
	v := security.NewValidator(nil)

	err := v.Validate(bundleOf(entry("main.py", "Python-3.12", "import subprocess")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import subprocess")
}

func TestValidate_UnknownLanguageIsNotScanned(t *testing.T) {
	v := security.NewValidator(nil)

	err := v.Validate(bundleOf(entry("main.rb", "ruby", "eval('system(\"rm -rf /\")')")))
	assert.NoError(t, err)
	assert.Nil(t, v.Patterns("ruby"))
}

func TestValidate_CleanBundle(t *testing.T) {
	v := security.NewValidator(nil)

	b := bundleOf(
		model.CodeFile{Name: "implementation.py", Language: "python-3.12", Content: "def add(a, b):\n    return a + b\n"},
		model.CodeFile{
			Name: "test.py", Language: "python-3.12", IsEntryPoint: true,
			Content:      "assert add(1, 2) == 3\nprint('ok')\n",
			Dependencies: []string{"implementation.py"},
		},
	)
	assert.NoError(t, v.Validate(b))
}

func TestValidate_CustomDenyList(t *testing.T) {
	v := security.NewValidator(security.DenyList{"ruby": {"system("}})

	err := v.Validate(bundleOf(entry("main.rb", "ruby", "system('ls')")))
	require.Error(t, err)

	// Python is unknown to this validator.
	assert.NoError(t, v.Validate(bundleOf(entry("main.py", "python", "import os"))))
}
