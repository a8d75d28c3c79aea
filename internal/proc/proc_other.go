//go:build !unix

package proc

import (
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

// killGroup falls back to killing the direct child; descendants may survive.
func killGroup(p *os.Process) error {
	return p.Kill()
}
