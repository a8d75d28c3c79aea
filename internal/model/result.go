package model

import (
	"encoding/json"
	"time"
)

// ErrorKind classifies why an execution did not produce a trustworthy program result.
// The empty kind means the program ran to completion (whatever its exit code).
type ErrorKind string

const (
	ErrorNone           ErrorKind = ""
	ErrorValidation     ErrorKind = "validation_error"
	ErrorNoEntryPoint   ErrorKind = "no_entry_point"
	ErrorTimeout        ErrorKind = "timeout"
	ErrorExecution      ErrorKind = "execution_error"
	ErrorNotImplemented ErrorKind = "not_implemented"
)

// NoExitCode marks results where the sandboxed process never reported a real exit status.
const NoExitCode = -1

// MarshalJSON encodes ErrorNone as null so clients can test `error === null`.
func (k ErrorKind) MarshalJSON() ([]byte, error) {
	if k == ErrorNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(k))
}

// ExecutionResult is what every backend returns for a bundle.
//
// Callers must treat a non-empty Error as "stdout and exit code are not a program
// result", regardless of ExitCode.
type ExecutionResult struct {
	ID       string        `json:"id,omitempty"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Error    ErrorKind     `json:"error"`
	Duration time.Duration `json:"duration"`
}

// Failed builds a result for a run that never produced a real exit status.
func Failed(kind ErrorKind, message string) ExecutionResult {
	return ExecutionResult{
		Stdout:   "",
		Stderr:   message,
		ExitCode: NoExitCode,
		Error:    kind,
	}
}

// OK reports whether the result carries a real program outcome.
func (r ExecutionResult) OK() bool {
	return r.Error == ErrorNone
}
