// GO TESTING BASICS:
// 1. Test files MUST end in _test.go; Go's tooling auto-discovers them
// 2. Test functions MUST start with "Test" and take *testing.T as the only param
// 3. Same package as the code being tested (so we can access unexported stuff)
package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("code", "code cannot be empty"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Unavailable wraps ErrUnavailable",
			err:       Unavailable("docker", "docker is not installed"),
			target:    ErrUnavailable,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("valid authentication required"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "InvalidConfig wraps ErrConfig",
			err:       InvalidConfig("sandbox.runtime", "podman"),
			target:    ErrConfig,
			wantMatch: true,
		},
		{
			name:      "wrapped twice still matches",
			err:       fmt.Errorf("creating executor: %w", Unavailable("finch", "finch daemon is not running")),
			target:    ErrUnavailable,
			wantMatch: true,
		},
		{
			name:      "Unavailable does NOT match ErrValidation",
			err:       Unavailable("docker", "down"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("code", "code cannot be empty"),
			wantMessage: "code cannot be empty",
		},
		{
			name:        "InvalidConfig names key and value",
			err:         InvalidConfig("sandbox.runtime", "podman"),
			wantMessage: "invalid value podman for sandbox.runtime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnavailableField(t *testing.T) {
	err := Unavailable("docker daemon", "Docker daemon is not running")

	if err.Field != "docker daemon" {
		t.Errorf("Field = %q, want %q", err.Field, "docker daemon")
	}
	if err.Unwrap() != ErrUnavailable {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), ErrUnavailable)
	}
}
