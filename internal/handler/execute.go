// Package handler contains the HTTP handlers of the playground API.
//
// Handlers only translate between HTTP and the domain: they build a bundle, hand it to
// the executor and relay the result. They hold no business logic of their own.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/executor"
	"github.com/sakif/tdd-playground/internal/model"
)

// DefaultLanguage tags files submitted without a language.
const DefaultLanguage = "python-3.12"

// File names used by the single-file and TDD endpoints.
const (
	MainFile = "main.py"
	TestFile = "test.py"
)

// ExecuteHandler handles code execution requests.
type ExecuteHandler struct {
	exec   executor.Executor
	logger *slog.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(exec executor.Executor, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		exec:   exec,
		logger: logger,
	}
}

// CodeRequest is the body of POST /api/v1/code.
type CodeRequest struct {
	Code string `json:"code"`
}

// TestsRequest is the body of POST /api/v1/tests.
type TestsRequest struct {
	Implementation string `json:"implementation"`
	Tests          string `json:"tests"`
	Language       string `json:"language,omitempty"`
}

// BundleRequest is the body of POST /api/v1/execute.
type BundleRequest struct {
	Files []model.CodeFile `json:"files"`
}

// HandleCode runs a single snippet as main.py.
func (h *ExecuteHandler) HandleCode(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid code request body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if req.Code == "" {
		writeError(w, apperror.ValidationFailed("code", "code cannot be empty"))
		return
	}

	bundle := model.NewCodeBundle()
	bundle.AddFile(model.CodeFile{
		Name:         MainFile,
		Content:      req.Code,
		Language:     DefaultLanguage,
		IsEntryPoint: true,
	})

	h.run(w, r, bundle)
}

// HandleTests runs a test file against an implementation file. The test file does
// not need to import the implementation; the sandbox wires it.
func (h *ExecuteHandler) HandleTests(w http.ResponseWriter, r *http.Request) {
	var req TestsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Tests == "" {
		writeError(w, apperror.ValidationFailed("tests", "tests cannot be empty"))
		return
	}
	lang := req.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	bundle := model.NewCodeBundle()
	bundle.AddFile(model.CodeFile{
		Name:     executor.ImplementationFile,
		Content:  req.Implementation,
		Language: lang,
	})
	bundle.AddFile(model.CodeFile{
		Name:         TestFile,
		Content:      req.Tests,
		Language:     lang,
		Dependencies: []string{executor.ImplementationFile},
		IsEntryPoint: true,
	})

	h.run(w, r, bundle)
}

// HandleExecute runs an arbitrary bundle. Structural problems (no files, no entry
// point, dangling dependencies) come back as a validation_error result, not a 400.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req BundleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	bundle := model.NewCodeBundle()
	for _, f := range req.Files {
		if f.Language == "" {
			f.Language = DefaultLanguage
		}
		bundle.AddFile(f)
	}

	h.run(w, r, bundle)
}

func (h *ExecuteHandler) run(w http.ResponseWriter, r *http.Request, bundle *model.CodeBundle) {
	h.logger.Info("executing bundle", slog.Int("files", bundle.Len()))

	result := h.exec.Execute(r.Context(), bundle)

	writeJSON(w, http.StatusOK, result)
}
