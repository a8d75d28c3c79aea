package executor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/tdd-playground/internal/model"
)

// newWorkspace creates a fresh request-scoped directory and writes every file into it.
// The caller owns the returned directory and must remove it.
//
// The directory is mounted read-only into the container, so it is made world-readable:
// images that drop to an unprivileged user must still be able to read the sources.
func newWorkspace(root, id string, files []model.CodeFile) (string, error) {
	dir, err := os.MkdirTemp(root, "sandbox-"+id+"-")
	if err != nil {
		return "", fmt.Errorf("creating workspace: %w", err)
	}
	if err := os.Chmod(dir, 0o755); err != nil {
		return dir, fmt.Errorf("preparing workspace: %w", err)
	}

	for _, f := range files {
		// Names come from the request body. Anything that is not a plain relative
		// path ("../x", "/etc/passwd") would let a caller write outside the workspace.
		if !filepath.IsLocal(f.Name) {
			return dir, fmt.Errorf("invalid file name %q", f.Name)
		}

		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return dir, fmt.Errorf("creating directory for %s: %w", f.Name, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return dir, fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}

	return dir, nil
}
