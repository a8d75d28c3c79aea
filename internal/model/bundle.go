// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "strings"

// CodeFile represents a single source file submitted for execution.
//
// The Name doubles as the logical ID inside a bundle AND as the on-disk filename
// once the bundle is written into a workspace, so "src/util.py" is a valid name.
type CodeFile struct {
	Name         string   `json:"name"`
	Content      string   `json:"content"`
	Language     string   `json:"language"`               // e.g. "python-3.12", selects the sandbox image tag
	Dependencies []string `json:"dependencies,omitempty"` // names of other files in the same bundle
	IsEntryPoint bool     `json:"isEntryPoint"`
}

// LanguageFamily returns the language without its version suffix, lowercased.
//
//	"python-3.12" → "python"
//	"JavaScript"  → "javascript"
func (f CodeFile) LanguageFamily() string {
	family, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(f.Language)), "-")
	return family
}

// CodeBundle is the set of files submitted for one execution request.
//
// WHY KEEP AN ORDER SLICE NEXT TO THE MAP?
// Go maps have randomised iteration order. The security validator must report the
// FIRST offending file in insertion order, so the bundle remembers the order in
// which names were first added. Overwriting a file keeps its original position.
type CodeBundle struct {
	files      map[string]*CodeFile
	order      []string
	EntryPoint string
}

// NewCodeBundle creates an empty bundle.
func NewCodeBundle() *CodeBundle {
	return &CodeBundle{files: make(map[string]*CodeFile)}
}

// AddFile inserts the file, replacing any file with the same name.
//
// If the file is marked as the entry point it becomes the bundle's entry point and
// the previous entry file (if different) loses its flag, so at most one file is
// ever flagged.
func (b *CodeBundle) AddFile(file CodeFile) {
	if b.files == nil {
		b.files = make(map[string]*CodeFile)
	}
	if _, exists := b.files[file.Name]; !exists {
		b.order = append(b.order, file.Name)
	}

	f := file
	f.Dependencies = append([]string(nil), file.Dependencies...)
	b.files[file.Name] = &f

	if f.IsEntryPoint {
		if prev, ok := b.files[b.EntryPoint]; ok && b.EntryPoint != f.Name {
			prev.IsEntryPoint = false
		}
		b.EntryPoint = f.Name
	}
}

// File returns the file with the given name.
func (b *CodeBundle) File(name string) (*CodeFile, bool) {
	f, ok := b.files[name]
	return f, ok
}

// EntryPointFile returns the entry point file, or false if none is set or the
// name no longer resolves.
func (b *CodeBundle) EntryPointFile() (*CodeFile, bool) {
	if b.EntryPoint == "" {
		return nil, false
	}
	return b.File(b.EntryPoint)
}

// DependenciesOf resolves the declared dependency names of a file.
// Names that are not in the bundle are skipped; use IsValid to detect them.
func (b *CodeBundle) DependenciesOf(name string) []CodeFile {
	f, ok := b.files[name]
	if !ok {
		return nil
	}

	deps := make([]CodeFile, 0, len(f.Dependencies))
	for _, depName := range f.Dependencies {
		if dep, ok := b.files[depName]; ok {
			deps = append(deps, *dep)
		}
	}
	return deps
}

// Files returns copies of all files in insertion order.
func (b *CodeBundle) Files() []CodeFile {
	out := make([]CodeFile, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, *b.files[name])
	}
	return out
}

// Len returns the number of files in the bundle.
func (b *CodeBundle) Len() int {
	return len(b.files)
}

// IsValid reports whether the bundle is structurally executable:
//   - at least one file
//   - an entry point that resolves to a file
//   - every dependency name resolves to a file (closed graph)
func (b *CodeBundle) IsValid() bool {
	if len(b.files) == 0 {
		return false
	}
	if _, ok := b.EntryPointFile(); !ok {
		return false
	}
	for _, f := range b.files {
		for _, dep := range f.Dependencies {
			if _, ok := b.files[dep]; !ok {
				return false
			}
		}
	}
	return true
}

// SetContent rewrites the content of an existing file.
// It is used by the dependency wiring step; the bundle's structure is unchanged.
func (b *CodeBundle) SetContent(name, content string) bool {
	f, ok := b.files[name]
	if !ok {
		return false
	}
	f.Content = content
	return true
}

// FileExtension returns the conventional file extension for a language tag,
// or "txt" when the language is unknown.
func FileExtension(language string) string {
	switch (CodeFile{Language: language}).LanguageFamily() {
	case "python":
		return "py"
	case "javascript":
		return "js"
	case "typescript":
		return "ts"
	case "java":
		return "java"
	case "cpp":
		return "cpp"
	case "c":
		return "c"
	default:
		return "txt"
	}
}
