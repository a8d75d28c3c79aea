//go:build unix

package factory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/tdd-playground/internal/config"
	"github.com/sakif/tdd-playground/internal/executor/factory"
	"github.com/sakif/tdd-playground/internal/model"
)

func TestNew_LocalWithFakeEngine(t *testing.T) {
	engine := filepath.Join(t.TempDir(), "finch")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"system\" ]; then exit 0; fi\n" +
		"echo \"Hello World\"\n"
	require.NoError(t, os.WriteFile(engine, []byte(script), 0o755))

	b, err := factory.New(config.SandboxConfig{
		Backend: config.BackendLocal,
		Runtime: config.RuntimeFinch,
		Binary:  engine,
		Timeout: 2 * time.Second,
		TempDir: t.TempDir(),
	}, testLogger())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, "finch", b.Name)

	bundle := model.NewCodeBundle()
	bundle.AddFile(model.CodeFile{Name: "main.py", Language: "python-3.12", Content: "print('Hello World')", IsEntryPoint: true})

	res := b.Execute(context.Background(), bundle)
	assert.Equal(t, model.ErrorNone, res.Error)
	assert.Equal(t, "Hello World\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}
