// Package remote reserves the managed-compute backend. It accepts bundles through the
// same contract as the local sandbox but runs nothing.
package remote

import (
	"context"
	"log/slog"

	"github.com/sakif/tdd-playground/internal/executor"
	"github.com/sakif/tdd-playground/internal/metrics"
	"github.com/sakif/tdd-playground/internal/model"
)

// DefaultName is the label used in the not-implemented message.
const DefaultName = "Fargate"

// Executor is a placeholder backend.
type Executor struct {
	name   string
	logger *slog.Logger
}

var _ executor.Executor = (*Executor)(nil)

// New creates the placeholder. An empty name uses DefaultName.
func New(name string, logger *slog.Logger) *Executor {
	if name == "" {
		name = DefaultName
	}
	return &Executor{name: name, logger: logger}
}

// Name returns the backend label.
func (e *Executor) Name() string {
	return e.name
}

// Execute always reports not_implemented.
func (e *Executor) Execute(_ context.Context, _ *model.CodeBundle) model.ExecutionResult {
	e.logger.Warn("remote execution requested but not implemented", slog.String("backend", e.name))
	res := model.Failed(model.ErrorNotImplemented, e.name+" execution is not implemented yet")
	metrics.ObserveExecution("remote", res, 0)
	return res
}
