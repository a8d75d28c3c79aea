package executor

import (
	"strings"

	"github.com/sakif/tdd-playground/internal/model"
)

const (
	// ImplementationFile is the module a test entry file is wired to.
	ImplementationFile = "implementation.py"
	// ImplementationImport is the line that makes a test file see the implementation module.
	ImplementationImport = "from implementation import *"
)

// EnsureTestImports prepends ImplementationImport (plus a blank line) to a Python
// entry file that lacks it, so callers can submit implementation and tests as
// separate files. It reports whether the entry file was rewritten; a second call
// is a no-op.
//
// Bundles without an implementation.py are left alone: a lone script has nothing
// to import, and the added line would only make it fail with ModuleNotFoundError.
func EnsureTestImports(bundle *model.CodeBundle) bool {
	entry, ok := bundle.EntryPointFile()
	if !ok || !isPython(*entry) || entry.Name == ImplementationFile {
		return false
	}
	if _, ok := bundle.File(ImplementationFile); !ok {
		return false
	}
	if strings.Contains(entry.Content, ImplementationImport) {
		return false
	}
	return bundle.SetContent(entry.Name, ImplementationImport+"\n\n"+entry.Content)
}

func isPython(f model.CodeFile) bool {
	return strings.HasSuffix(f.Name, ".py") || f.LanguageFamily() == "python"
}
