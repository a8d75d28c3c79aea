package docker

import (
	"time"

	"github.com/sakif/tdd-playground/internal/apperror"
)

// Runtime names a container engine CLI. Both accept the same `run` flags.
type Runtime string

const (
	RuntimeDocker Runtime = "docker"
	RuntimeFinch  Runtime = "finch"
)

// Config holds the configuration for container engine execution.
type Config struct {
	// Runtime selects the engine binary.
	Runtime Runtime
	// Binary is an explicit path to the engine. Empty means search known locations, then PATH.
	Binary string
	// ImageRepo is the sandbox image repository; the tag is the entry file's language.
	ImageRepo string
	// Memory is the container memory cap in engine syntax ("100m").
	Memory string
	// CPUs is the CPU share in engine syntax ("0.5").
	CPUs string
	// PidsLimit caps the number of processes inside the container.
	PidsLimit int
	// MaxOutputBytes caps each captured stream.
	MaxOutputBytes int
	// ProbeTimeout bounds the startup `info` query.
	ProbeTimeout time.Duration
}

// DefaultConfig provides the hard isolation defaults for the Python sandbox image.
func DefaultConfig() Config {
	return Config{
		Runtime:        RuntimeDocker,
		ImageRepo:      "python-sandbox",
		Memory:         "100m",
		CPUs:           "0.5",
		PidsLimit:      50,
		MaxOutputBytes: 1 << 20,
		ProbeTimeout:   10 * time.Second,
	}
}

// ParseRuntime validates a runtime name from configuration.
func ParseRuntime(s string) (Runtime, error) {
	switch Runtime(s) {
	case RuntimeDocker, RuntimeFinch:
		return Runtime(s), nil
	default:
		return "", apperror.InvalidConfig("sandbox.runtime", s)
	}
}

// DisplayName is the capitalised engine name used in operator-facing messages.
func (r Runtime) DisplayName() string {
	switch r {
	case RuntimeFinch:
		return "Finch"
	default:
		return "Docker"
	}
}
