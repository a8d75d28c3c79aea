// Package runner is the entry point baked into the sandbox images.
//
// The host starts a container with `--entrypoint /code/<file>`; the runner checks the
// file exists, runs it with the interpreter under its own deadline and exits with the
// program's exit code. The deadline here is a second line of defence: it bounds a
// container whose host-side client was killed before the engine stopped it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/sakif/tdd-playground/internal/proc"
)

// DefaultTimeout matches the host-side default deadline.
const DefaultTimeout = 5 * time.Second

// DefaultInterpreter is resolved through PATH inside the image.
const DefaultInterpreter = "python"

// TimedOutMessage is written to stderr when the program outlives the deadline.
const TimedOutMessage = "Execution timed out"

// Options configure one run.
type Options struct {
	Entrypoint  string
	Interpreter string
	Timeout     time.Duration
	Stdout      io.Writer
	Stderr      io.Writer
}

// Run executes the entry point and returns the exit code the runner should exit with.
func Run(ctx context.Context, opts Options) int {
	if opts.Interpreter == "" {
		opts.Interpreter = DefaultInterpreter
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	info, err := os.Stat(opts.Entrypoint)
	if err != nil || info.IsDir() {
		fmt.Fprintf(opts.Stderr, "Entry point file does not exist: %s\n", opts.Entrypoint)
		return 1
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, opts.Interpreter, opts.Entrypoint)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	proc.Configure(cmd)

	err = cmd.Run()
	if runCtx.Err() != nil {
		fmt.Fprintln(opts.Stderr, TimedOutMessage)
		return 1
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		return 1
	default:
		fmt.Fprintf(opts.Stderr, "failed to start %s: %v\n", opts.Interpreter, err)
		return 1
	}
}
