// Package docker launches sandboxes through a container engine CLI (docker or finch).
//
// Each run is a fresh `<engine> run --rm` with no network, capped memory/CPU/pids and
// the workspace mounted read-only. Nothing is pooled or reused between runs.
//
// On timeout the launcher kills the engine client's process group, not the container:
// the fixed flag set carries no --name or --cidfile to address it by. The container
// stops when the in-image runner hits its own deadline and --rm removes it. Set
// sandbox.runtime to docker-api when containers must be killed the moment a run ends.
package docker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/sakif/tdd-playground/internal/executor"
	"github.com/sakif/tdd-playground/internal/proc"
)

// engineFailureCode is what `docker run` exits with when the engine itself failed
// (daemon gone, image missing) rather than the containerised program.
const engineFailureCode = 125

// Launcher implements executor.Launcher using the engine CLI.
type Launcher struct {
	binary string
	config Config
	logger *slog.Logger
}

var _ executor.Launcher = (*Launcher)(nil)

// New resolves the engine binary and checks that its daemon answers.
// Any failure here is fatal: the launcher could not serve a single request.
func New(cfg Config, logger *slog.Logger) (*Launcher, error) {
	binary, err := ResolveBinary(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProbeTimeout)
	defer cancel()

	logger.Info("checking container engine", slog.String("runtime", string(cfg.Runtime)), slog.String("binary", binary))
	if err := Probe(ctx, binary, cfg.Runtime); err != nil {
		return nil, err
	}
	logger.Info("container engine is ready")

	return &Launcher{
		binary: binary,
		config: cfg,
		logger: logger,
	}, nil
}

// Name returns the runtime name.
func (l *Launcher) Name() string {
	return string(l.config.Runtime)
}

// Binary returns the resolved engine path.
func (l *Launcher) Binary() string {
	return l.binary
}

// Launch runs the container and waits for it to exit or for ctx to end.
func (l *Launcher) Launch(ctx context.Context, spec executor.LaunchSpec) (*executor.Outcome, error) {
	argv := BuildCommand(l.binary, l.config, spec.Workspace, spec.Entry)
	l.logger.Debug("running container engine", slog.String("id", spec.ID), slog.String("command", strings.Join(argv, " ")))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = proc.Env(engineEnv...)
	stdout := executor.NewLimitedBuffer(l.config.MaxOutputBytes)
	stderr := executor.NewLimitedBuffer(l.config.MaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	proc.Configure(cmd)

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", executor.ErrKilled, ctxErr)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("running %s: %w", l.config.Runtime, err)
		}
		exitCode = exitErr.ExitCode()
	}

	if exitCode == engineFailureCode {
		return nil, fmt.Errorf("%s run failed: %s", l.config.Runtime, strings.TrimSpace(stderr.String()))
	}

	return &executor.Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}
