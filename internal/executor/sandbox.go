package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/tdd-playground/internal/executor/security"
	"github.com/sakif/tdd-playground/internal/metrics"
	"github.com/sakif/tdd-playground/internal/model"
)

// DefaultTimeout is the wall-clock deadline for one run.
const DefaultTimeout = 5 * time.Second

// Config holds the per-backend settings of a Sandbox. It is fixed at construction.
type Config struct {
	// Timeout is the wall-clock deadline for one run, including container start-up.
	Timeout time.Duration
	// TempDir is where workspaces are created. Empty means os.TempDir().
	TempDir string
}

// BundleValidator gates a bundle before anything touches the disk.
// *security.Validator is the production implementation.
type BundleValidator interface {
	Validate(bundle *model.CodeBundle) error
}

// Sandbox executes bundles through a Launcher.
//
// A Sandbox holds only immutable configuration, so one instance serves any number of
// concurrent requests: every call gets its own workspace and its own process.
type Sandbox struct {
	launcher  Launcher
	validator BundleValidator
	config    Config
	logger    *slog.Logger
}

var (
	_ Executor        = (*Sandbox)(nil)
	_ BundleValidator = (*security.Validator)(nil)
)

// NewSandbox creates a Sandbox. A nil validator uses the default deny list.
func NewSandbox(launcher Launcher, validator BundleValidator, cfg Config, logger *slog.Logger) *Sandbox {
	if validator == nil {
		validator = security.NewValidator(nil)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Sandbox{
		launcher:  launcher,
		validator: validator,
		config:    cfg,
		logger:    logger,
	}
}

// Timeout returns the configured deadline.
func (s *Sandbox) Timeout() time.Duration {
	return s.config.Timeout
}

// Execute validates, wires and runs the bundle.
//
// Cancelling ctx (e.g. the HTTP client went away) kills the sandboxed process through
// the same path as the deadline and still removes the workspace.
func (s *Sandbox) Execute(ctx context.Context, bundle *model.CodeBundle) (result model.ExecutionResult) {
	id := xid.New().String()
	start := time.Now()
	logger := s.logger.With(slog.String("id", id), slog.String("backend", s.launcher.Name()))

	metrics.ExecutionsInFlight.Inc()
	defer func() {
		metrics.ExecutionsInFlight.Dec()
		if r := recover(); r != nil {
			logger.Error("sandbox panicked", slog.Any("panic", r))
			result = model.Failed(model.ErrorExecution, fmt.Sprintf("internal error: %v", r))
		}
		result.ID = id
		result.Duration = time.Since(start)
		metrics.ObserveExecution(s.launcher.Name(), result, result.Duration)
		logger.Info("execution finished",
			slog.String("outcome", metrics.Outcome(result)),
			slog.Int("exitCode", result.ExitCode),
			slog.Duration("duration", result.Duration),
		)
	}()

	if err := s.validator.Validate(bundle); err != nil {
		logger.Warn("bundle rejected", slog.String("reason", err.Error()))
		return model.Failed(model.ErrorValidation, err.Error())
	}

	if EnsureTestImports(bundle) {
		logger.Debug("wired test entry point to implementation", slog.String("entry", bundle.EntryPoint))
	}

	return s.run(ctx, id, bundle, logger)
}

func (s *Sandbox) run(ctx context.Context, id string, bundle *model.CodeBundle, logger *slog.Logger) model.ExecutionResult {
	workspace, err := newWorkspace(s.config.TempDir, id, bundle.Files())
	if workspace != "" {
		defer func() {
			if err := os.RemoveAll(workspace); err != nil {
				logger.Error("failed to remove workspace", slog.String("dir", workspace), slog.String("error", err.Error()))
			}
		}()
	}
	if err != nil {
		logger.Error("failed to materialize bundle", slog.String("error", err.Error()))
		return model.Failed(model.ErrorExecution, err.Error())
	}

	entry, ok := bundle.EntryPointFile()
	if !ok {
		return model.Failed(model.ErrorNoEntryPoint, "No entry point specified")
	}

	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	logger.Info("launching sandbox", slog.String("entry", entry.Name), slog.String("language", entry.Language))

	out, err := s.launcher.Launch(runCtx, LaunchSpec{
		ID:        id,
		Workspace: workspace,
		Entry:     *entry,
	})
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return model.Failed(model.ErrorExecution, "execution canceled: "+ctx.Err().Error())
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			// Partial output is dropped on purpose: a killed run has no trustworthy stdout.
			return model.Failed(model.ErrorTimeout, TimeoutMessage(s.config.Timeout))
		default:
			logger.Error("sandbox launch failed", slog.String("error", err.Error()))
			return model.Failed(model.ErrorExecution, err.Error())
		}
	}

	return model.ExecutionResult{
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		ExitCode: out.ExitCode,
	}
}

// TimeoutMessage is the fixed stderr text of a timed-out run.
func TimeoutMessage(d time.Duration) string {
	return fmt.Sprintf("Execution timed out after %s seconds", strconv.FormatFloat(d.Seconds(), 'f', -1, 64))
}
