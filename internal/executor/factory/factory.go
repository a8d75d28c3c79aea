// Package factory turns sandbox configuration into a ready backend.
//
// Local backends probe their runtime here, so a missing engine or a stopped daemon
// fails process start-up instead of every request.
package factory

import (
	"io"
	"log/slog"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/config"
	"github.com/sakif/tdd-playground/internal/executor"
	"github.com/sakif/tdd-playground/internal/executor/docker"
	"github.com/sakif/tdd-playground/internal/executor/dockerapi"
	"github.com/sakif/tdd-playground/internal/executor/remote"
)

// Backend is a constructed executor plus whatever it must release on shutdown.
type Backend struct {
	executor.Executor
	Name   string
	closer io.Closer
}

// Close releases backend resources. It is safe on backends that hold none.
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// DockerConfig maps sandbox settings onto the container launcher configuration.
func DockerConfig(cfg config.SandboxConfig) docker.Config {
	dc := docker.DefaultConfig()
	if cfg.Runtime == config.RuntimeFinch {
		dc.Runtime = docker.RuntimeFinch
	}
	dc.Binary = cfg.Binary
	if cfg.ImageRepo != "" {
		dc.ImageRepo = cfg.ImageRepo
	}
	if cfg.Memory != "" {
		dc.Memory = cfg.Memory
	}
	if cfg.CPUs != "" {
		dc.CPUs = cfg.CPUs
	}
	if cfg.PidsLimit > 0 {
		dc.PidsLimit = cfg.PidsLimit
	}
	return dc
}

// New builds the backend selected by cfg.Backend and cfg.Runtime.
func New(cfg config.SandboxConfig, logger *slog.Logger) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendRemote:
		r := remote.New(cfg.RemoteName, logger)
		logger.Info("using remote sandbox backend", slog.String("name", r.Name()))
		return &Backend{Executor: r, Name: "remote"}, nil

	case config.BackendLocal, "":
		launcher, closer, err := newLauncher(cfg, logger)
		if err != nil {
			return nil, err
		}
		sb := executor.NewSandbox(launcher, nil, executor.Config{
			Timeout: cfg.Timeout,
			TempDir: cfg.TempDir,
		}, logger)
		logger.Info("using local sandbox backend",
			slog.String("runtime", launcher.Name()),
			slog.Duration("timeout", sb.Timeout()),
		)
		return &Backend{Executor: sb, Name: launcher.Name(), closer: closer}, nil

	default:
		return nil, apperror.InvalidConfig("sandbox.backend", cfg.Backend)
	}
}

func newLauncher(cfg config.SandboxConfig, logger *slog.Logger) (executor.Launcher, io.Closer, error) {
	dc := DockerConfig(cfg)

	switch cfg.Runtime {
	case config.RuntimeDocker, config.RuntimeFinch, "":
		l, err := docker.New(dc, logger)
		if err != nil {
			return nil, nil, err
		}
		return l, nil, nil

	case config.RuntimeDockerAPI:
		l, err := dockerapi.New(dc, logger)
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil

	default:
		return nil, nil, apperror.InvalidConfig("sandbox.runtime", cfg.Runtime)
	}
}
