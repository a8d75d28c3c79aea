//go:build unix

package docker_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/executor"
	"github.com/sakif/tdd-playground/internal/executor/docker"
	"github.com/sakif/tdd-playground/internal/model"
)

// FAKE ENGINES:
// These tests replace the docker binary with tiny shell scripts. `info` decides whether
// the availability probe passes; `run` is whatever behaviour the test needs. This
// exercises the real spawn, capture, exit-code and kill paths without a daemon.

const healthyInfo = `if [ "$1" = "info" ] || [ "$1" = "system" ]; then exit 0; fi
`

func fakeEngine(t *testing.T, body string) docker.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	cfg := docker.DefaultConfig()
	cfg.Binary = path
	cfg.ProbeTimeout = 5 * time.Second
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newFakeSandbox(t *testing.T, body string, timeout time.Duration) *executor.Sandbox {
	t.Helper()
	l, err := docker.New(fakeEngine(t, healthyInfo+body), testLogger())
	require.NoError(t, err)
	return executor.NewSandbox(l, nil, executor.Config{Timeout: timeout, TempDir: t.TempDir()}, testLogger())
}

func mainBundle(content string) *model.CodeBundle {
	b := model.NewCodeBundle()
	b.AddFile(model.CodeFile{Name: "main.py", Language: "python-3.12", Content: content, IsEntryPoint: true})
	return b
}

func TestNew_ProbeFailureIsFatal(t *testing.T) {
	cfg := fakeEngine(t, "echo 'Cannot connect to the Docker daemon' >&2\nexit 1\n")

	l, err := docker.New(cfg, testLogger())

	assert.Nil(t, l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnavailable))
	assert.Contains(t, err.Error(), "Docker daemon is not running")
	assert.Contains(t, err.Error(), "Cannot connect to the Docker daemon")
}

func TestNew_FinchUsesSystemInfo(t *testing.T) {
	cfg := fakeEngine(t, `if [ "$1 $2" = "system info" ]; then exit 0; fi
exit 1
`)
	cfg.Runtime = docker.RuntimeFinch

	l, err := docker.New(cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "finch", l.Name())
	assert.Equal(t, cfg.Binary, l.Binary())
}

func TestNew_MissingBinary(t *testing.T) {
	cfg := docker.DefaultConfig()
	cfg.Binary = filepath.Join(t.TempDir(), "no-such-docker")

	_, err := docker.New(cfg, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnavailable))
	assert.Equal(t, "Docker is not installed. Please install Docker first.", err.Error())
}

func TestResolveBinary_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644))

	cfg := docker.DefaultConfig()
	cfg.Binary = path
	_, err := docker.ResolveBinary(cfg)
	assert.Error(t, err)
}

func TestResolveBinary_PathFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "finch"), []byte("#!/bin/sh\n"), 0o755))
	t.Setenv("PATH", dir)

	cfg := docker.DefaultConfig()
	cfg.Runtime = docker.RuntimeFinch

	got, err := docker.ResolveBinary(cfg)
	require.NoError(t, err)
	// A real finch under /usr/local/bin or /opt/homebrew/bin takes precedence.
	assert.True(t, strings.HasSuffix(got, "/finch"), got)
}

func TestLaunch_PassesExactArgumentsAndCapturesStreams(t *testing.T) {
	sb := newFakeSandbox(t, `echo "$@"
echo "to stderr" >&2
exit 0
`, 5*time.Second)

	res := sb.Execute(context.Background(), mainBundle("print('hi')"))

	require.True(t, res.OK(), res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "to stderr\n", res.Stderr)
	assert.True(t, strings.HasPrefix(res.Stdout, "run --rm --network=none --memory=100m --cpus=0.5 --pids-limit=50 -v "), res.Stdout)
	assert.True(t, strings.HasSuffix(res.Stdout, ":/code:ro python-sandbox:python-3.12 --entrypoint /code/main.py\n"), res.Stdout)
}

func TestLaunch_WorkspaceIsMaterializedForTheEngine(t *testing.T) {
	// $8 is "<workspace>:/code:ro"; read the entry file back through it.
	sb := newFakeSandbox(t, `dir=$(echo "$8" | cut -d: -f1)
cat "$dir/main.py"
`, 5*time.Second)

	res := sb.Execute(context.Background(), mainBundle("print('from disk')"))

	require.True(t, res.OK(), res.Stderr)
	assert.Equal(t, "print('from disk')", res.Stdout)
}

func TestLaunch_ProgramExitCodeIsAResult(t *testing.T) {
	sb := newFakeSandbox(t, "echo 'AssertionError' >&2\nexit 1\n", 5*time.Second)

	res := sb.Execute(context.Background(), mainBundle("assert False"))

	assert.True(t, res.OK())
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "AssertionError\n", res.Stderr)
}

func TestLaunch_EngineFailureIsExecutionError(t *testing.T) {
	sb := newFakeSandbox(t, "echo 'docker: Error response from daemon: No such image' >&2\nexit 125\n", 5*time.Second)

	res := sb.Execute(context.Background(), mainBundle("print(1)"))

	assert.Equal(t, model.ErrorExecution, res.Error)
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, res.Stderr, "No such image")
}

func TestLaunch_TimeoutKillsTheEngineProcess(t *testing.T) {
	sb := newFakeSandbox(t, "echo partial\nsleep 10 &\nwait\n", time.Second)

	start := time.Now()
	res := sb.Execute(context.Background(), mainBundle("import time\ntime.sleep(10)"))

	assert.Less(t, time.Since(start), 5*time.Second, "deadline must fire while the child is unresponsive")
	assert.Equal(t, model.ErrorTimeout, res.Error)
	assert.Equal(t, -1, res.ExitCode)
	assert.Empty(t, res.Stdout, "partial output is discarded")
	assert.Equal(t, "Execution timed out after 1 seconds", res.Stderr)
}

func TestLaunch_EnvironmentIsNotInherited(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-secret")
	sb := newFakeSandbox(t, "env\n", 5*time.Second)

	res := sb.Execute(context.Background(), mainBundle("print(1)"))

	require.True(t, res.OK(), res.Stderr)
	assert.NotContains(t, res.Stdout, "sk-secret")
	assert.Contains(t, res.Stdout, "PATH=")
}
