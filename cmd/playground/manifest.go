package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/model"
)

// Manifest describes a bundle on disk. A file either inlines its content or points
// at a path relative to the manifest.
//
//	language: python-3.12
//	files:
//	  - name: implementation.py
//	    path: ./implementation.py
//	  - name: test.py
//	    path: ./test_impl.py
//	    entry_point: true
//	    dependencies: [implementation.py]
type Manifest struct {
	Language string         `yaml:"language"`
	Files    []ManifestFile `yaml:"files"`
}

type ManifestFile struct {
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	Content      string   `yaml:"content"`
	Language     string   `yaml:"language"`
	EntryPoint   bool     `yaml:"entry_point"`
	Dependencies []string `yaml:"dependencies"`
}

// LoadManifest parses the manifest at path and reads the files it references.
func LoadManifest(path string) (*model.CodeBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, apperror.ValidationFailed("manifest", err.Error())
	}
	return m.Bundle(filepath.Dir(path))
}

// Bundle resolves file paths against dir and builds the bundle.
func (m *Manifest) Bundle(dir string) (*model.CodeBundle, error) {
	if len(m.Files) == 0 {
		return nil, apperror.ValidationFailed("files", "manifest lists no files")
	}

	b := model.NewCodeBundle()
	for _, f := range m.Files {
		content := f.Content
		name := f.Name
		if f.Path != "" {
			if content != "" {
				return nil, apperror.ValidationFailed("files", fmt.Sprintf("%s sets both path and content", f.Path))
			}
			p := f.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", f.Path, err)
			}
			content = string(data)
			if name == "" {
				name = filepath.Base(p)
			}
		}
		if name == "" {
			return nil, apperror.ValidationFailed("files", "every file needs a name or a path")
		}

		b.AddFile(model.CodeFile{
			Name:         name,
			Content:      content,
			Language:     firstNonEmpty(f.Language, m.Language, defaultLanguage),
			Dependencies: f.Dependencies,
			IsEntryPoint: f.EntryPoint,
		})
	}
	return b, nil
}

// BundleFromFiles builds a bundle from plain paths. The entry file defaults to the
// last path, so `playground run implementation.py test.py` runs the tests.
func BundleFromFiles(paths []string, entry, language string) (*model.CodeBundle, error) {
	if entry == "" {
		entry = filepath.Base(paths[len(paths)-1])
	}

	b := model.NewCodeBundle()
	found := false
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		name := filepath.Base(p)
		isEntry := name == entry
		found = found || isEntry
		b.AddFile(model.CodeFile{
			Name:         name,
			Content:      string(data),
			Language:     firstNonEmpty(language, defaultLanguage),
			IsEntryPoint: isEntry,
		})
	}
	if !found {
		return nil, apperror.ValidationFailed("entry", fmt.Sprintf("%s is not one of the given files", entry))
	}
	return b, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
