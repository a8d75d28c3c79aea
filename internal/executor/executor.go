// Package executor runs untrusted code bundles and classifies the outcome.
//
// The pieces, leaves first:
//   - security.Validator rejects bundles before anything touches disk
//   - EnsureTestImports wires a test entry file to its implementation
//   - Sandbox materializes a workspace, enforces the deadline and maps outcomes
//   - a Launcher (docker CLI, docker API) starts the isolated process
//
// Backends that do not launch anything locally (the remote placeholder) implement
// Executor directly.
package executor

import (
	"context"
	"errors"

	"github.com/sakif/tdd-playground/internal/model"
)

// Executor is the contract every backend implements.
//
// Execute never returns an error: every failure is reported through
// ExecutionResult.Error so callers always have something to relay.
type Executor interface {
	Execute(ctx context.Context, bundle *model.CodeBundle) model.ExecutionResult
}

// LaunchSpec describes one isolated run of an already materialized workspace.
type LaunchSpec struct {
	ID        string         // unique run ID, also usable as a container name
	Workspace string         // host directory holding every bundle file
	Entry     model.CodeFile // file the in-sandbox runner executes
}

// Outcome is the raw result of a launched process that exited on its own.
type Outcome struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Launcher starts the isolated process for a LaunchSpec and waits for it.
//
// Implementations must stop the process (and anything it spawned) as soon as ctx is
// done, and then return an error wrapping ctx.Err(). A non-zero exit of the sandboxed
// program is NOT an error: it is reported through Outcome.ExitCode.
type Launcher interface {
	Launch(ctx context.Context, spec LaunchSpec) (*Outcome, error)
	// Name identifies the launcher in logs and metrics ("docker", "finch", "docker-api").
	Name() string
}

// ErrKilled is wrapped by launchers when they terminated the process because ctx ended.
var ErrKilled = errors.New("sandboxed process killed")
