// Package proc starts child processes that can be torn down as a whole.
//
// exec.CommandContext only kills the direct child when its context ends. A sandboxed
// interpreter (or a container engine client) may have spawned helpers that keep the
// stdout/stderr pipes open, and Wait then blocks until they exit. Configure puts the
// child into its own process group and makes cancellation kill the entire group.
package proc

import (
	"os"
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait keeps reading pipes after the group was killed.
const WaitDelay = 2 * time.Second

// Configure prepares cmd so that cancelling its context kills the whole process tree.
// It must be called before cmd.Start.
func Configure(cmd *exec.Cmd) {
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return killGroup(cmd.Process)
	}
	cmd.WaitDelay = WaitDelay
}

// Env builds a minimal child environment from the host: PATH plus the listed
// variables that are actually set. Nothing else is inherited, so host secrets
// never reach the child.
func Env(keys ...string) []string {
	env := []string{"PATH=" + os.Getenv("PATH")}
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+v)
		}
	}
	return env
}
