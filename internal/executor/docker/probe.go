package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/proc"
)

// knownPaths lists install locations checked before falling back to PATH.
var knownPaths = map[Runtime][]string{
	RuntimeDocker: {
		"/usr/local/bin/docker",
		"/usr/bin/docker",
		"/opt/homebrew/bin/docker",
	},
	RuntimeFinch: {
		"/usr/local/bin/finch",
		"/opt/homebrew/bin/finch",
	},
}

// engineEnv is what the engine client needs to reach its daemon, and nothing more.
var engineEnv = []string{
	"HOME",
	"DOCKER_HOST",
	"DOCKER_CONFIG",
	"DOCKER_CONTEXT",
	"DOCKER_CERT_PATH",
	"DOCKER_TLS_VERIFY",
	"XDG_RUNTIME_DIR",
}

// ResolveBinary finds the engine executable: the explicit cfg.Binary if set,
// otherwise the first known install location, otherwise a PATH lookup.
func ResolveBinary(cfg Config) (string, error) {
	name := cfg.Runtime.DisplayName()
	notInstalled := apperror.Unavailable(string(cfg.Runtime),
		fmt.Sprintf("%s is not installed. Please install %s first.", name, name))

	if cfg.Binary != "" {
		if !isExecutable(cfg.Binary) {
			return "", notInstalled
		}
		return cfg.Binary, nil
	}

	for _, p := range knownPaths[cfg.Runtime] {
		if isExecutable(p) {
			return p, nil
		}
	}

	p, err := exec.LookPath(string(cfg.Runtime))
	if err != nil {
		return "", notInstalled
	}
	return p, nil
}

// Probe asks the engine for daemon info. An error means no request can be served.
func Probe(ctx context.Context, binary string, runtime Runtime) error {
	args := []string{"info"}
	if runtime == RuntimeFinch {
		args = []string{"system", "info"}
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = proc.Env(engineEnv...)
	proc.Configure(cmd)

	out, err := cmd.CombinedOutput()
	if err != nil {
		name := runtime.DisplayName()
		msg := fmt.Sprintf("%s daemon is not running. Please start %s.", name, name)
		if detail := firstLine(string(out)); detail != "" {
			msg += " (" + detail + ")"
		}
		return apperror.Unavailable(string(runtime)+" daemon", msg)
	}
	return nil
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
