// Package dockerapi launches sandboxes through the Docker Engine API instead of the CLI.
//
// Isolation matches the CLI launcher flag for flag. Unlike a killed CLI client, this
// launcher can stop the container itself when the deadline hits, so no container
// outlives its run.
package dockerapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-units"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/executor"
	"github.com/sakif/tdd-playground/internal/executor/docker"
)

// Name identifies this launcher in logs and metrics.
const Name = "docker-api"

// cleanupTimeout bounds kill and remove calls, which run after the request context is gone.
const cleanupTimeout = 5 * time.Second

// Engine is the subset of the Docker client the launcher uses.
type Engine interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerKill(ctx context.Context, containerID, signal string) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Close() error
}

var _ Engine = (*client.Client)(nil)

// Launcher implements executor.Launcher on top of the Engine API.
type Launcher struct {
	engine   Engine
	config   docker.Config
	memory   int64
	nanoCPUs int64
	logger   *slog.Logger
}

var _ executor.Launcher = (*Launcher)(nil)

// New connects to the daemon described by the DOCKER_* environment and pings it.
func New(cfg docker.Config, logger *slog.Logger) (*Launcher, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	l, err := NewWithEngine(cli, cfg, logger)
	if err != nil {
		_ = cli.Close()
		return nil, err
	}
	return l, nil
}

// NewWithEngine builds a launcher around an existing Engine and checks that it answers.
func NewWithEngine(engine Engine, cfg docker.Config, logger *slog.Logger) (*Launcher, error) {
	memory, err := units.RAMInBytes(cfg.Memory)
	if err != nil {
		return nil, apperror.InvalidConfig("sandbox.memory", cfg.Memory)
	}
	cpus, err := strconv.ParseFloat(cfg.CPUs, 64)
	if err != nil || cpus <= 0 {
		return nil, apperror.InvalidConfig("sandbox.cpus", cfg.CPUs)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProbeTimeout)
	defer cancel()

	logger.Info("pinging docker engine api")
	if _, err := engine.Ping(ctx); err != nil {
		return nil, apperror.Unavailable("docker daemon",
			fmt.Sprintf("Docker daemon is not running. Please start Docker. (%v)", err))
	}
	logger.Info("docker engine api is ready")

	return &Launcher{
		engine:   engine,
		config:   cfg,
		memory:   memory,
		nanoCPUs: int64(cpus * 1e9),
		logger:   logger,
	}, nil
}

// Name implements executor.Launcher.
func (l *Launcher) Name() string {
	return Name
}

// Close releases the client connection.
func (l *Launcher) Close() error {
	return l.engine.Close()
}

// Launch creates, starts and waits for one container. The container is always removed.
func (l *Launcher) Launch(ctx context.Context, spec executor.LaunchSpec) (*executor.Outcome, error) {
	pids := int64(l.config.PidsLimit)

	hostConfig := &container.HostConfig{
		NetworkMode: "none",
		Binds:       []string{spec.Workspace + ":" + docker.MountPoint + ":ro"},
		Resources: container.Resources{
			Memory:    l.memory,
			NanoCPUs:  l.nanoCPUs,
			PidsLimit: &pids,
		},
		AutoRemove:     false,
		ReadonlyRootfs: true,
	}

	resp, err := l.engine.ContainerCreate(ctx, &container.Config{
		Image: docker.Image(l.config.ImageRepo, spec.Entry.Language),
		Cmd:   []string{"--entrypoint", docker.EntryPath(spec.Entry)},
		Tty:   false,
	}, hostConfig, nil, nil, "sandbox-"+spec.ID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", executor.ErrKilled, ctx.Err())
		}
		return nil, fmt.Errorf("ContainerCreate failed: %w", err)
	}
	defer l.remove(resp.ID)

	if err := l.engine.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", executor.ErrKilled, ctx.Err())
		}
		return nil, fmt.Errorf("ContainerStart failed: %w", err)
	}

	statusCh, errCh := l.engine.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)

	var exitCode int
	select {
	case <-ctx.Done():
		l.kill(resp.ID)
		return nil, fmt.Errorf("%w: %w", executor.ErrKilled, ctx.Err())
	case err := <-errCh:
		if ctx.Err() != nil {
			l.kill(resp.ID)
			return nil, fmt.Errorf("%w: %w", executor.ErrKilled, ctx.Err())
		}
		return nil, fmt.Errorf("ContainerWait failed: %w", err)
	case status := <-statusCh:
		if status.Error != nil {
			return nil, fmt.Errorf("container wait: %s", status.Error.Message)
		}
		exitCode = int(status.StatusCode)
	}

	stdout := executor.NewLimitedBuffer(l.config.MaxOutputBytes)
	stderr := executor.NewLimitedBuffer(l.config.MaxOutputBytes)

	logs, err := l.engine.ContainerLogs(ctx, resp.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, fmt.Errorf("ContainerLogs failed: %w", err)
	}
	defer logs.Close()

	if _, err := stdcopy.StdCopy(stdout, stderr, logs); err != nil {
		return nil, fmt.Errorf("reading container output: %w", err)
	}

	return &executor.Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}

func (l *Launcher) kill(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := l.engine.ContainerKill(ctx, id, "KILL"); err != nil {
		l.logger.Warn("failed to kill container", slog.String("container", id), slog.String("error", err.Error()))
	}
}

func (l *Launcher) remove(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	err := l.engine.ContainerRemove(ctx, id, container.RemoveOptions{
		Force: true,
	})
	if err != nil {
		l.logger.Error("failed to remove container", slog.String("container", id), slog.String("error", err.Error()))
	}
}
