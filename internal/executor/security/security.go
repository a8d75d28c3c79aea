// Package security implements the pre-execution deny-list scan.
//
// THIS IS NOT THE SANDBOX BOUNDARY.
// The scan is a plain substring search, so `getattr(__builtins__, "ev"+"al")` or any
// other encoding trick walks straight past it. It exists to reject the obvious cases
// early with a readable message. Confinement comes from the container launch: no
// network, capped memory/CPU/pids, read-only source mount.
package security

import (
	"fmt"
	"strings"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/model"
)

// InvalidBundleMessage is returned for bundles that fail model.CodeBundle.IsValid.
const InvalidBundleMessage = "Invalid bundle structure"

// DenyList maps a language family ("python", "javascript") to forbidden substrings.
// Pattern order matters: the first match wins.
type DenyList map[string][]string

// DefaultDenyList returns the built-in patterns for the supported languages.
func DefaultDenyList() DenyList {
	return DenyList{
		"python": {
			"import os",
			"import sys",
			"import subprocess",
			"import socket",
			"import requests",
			"import urllib",
			"__import__",
			"eval(",
			"exec(",
			"open(",
			"file(",
			"os.system",
			"subprocess.call",
			"subprocess.Popen",
			"socket.socket",
			"requests.get",
			"requests.post",
		},
		"javascript": {
			"require(",
			"import ",
			"eval(",
			"Function(",
			"setTimeout(",
			"setInterval(",
			"fetch(",
			"XMLHttpRequest",
			"process.",
			"child_process",
			"fs.",
		},
	}
}

// Validator checks a bundle before anything touches the filesystem.
// It holds no per-request state and is safe for concurrent use.
type Validator struct {
	patterns DenyList
}

// NewValidator creates a Validator. A nil deny list uses DefaultDenyList.
func NewValidator(patterns DenyList) *Validator {
	if patterns == nil {
		patterns = DefaultDenyList()
	}
	return &Validator{patterns: patterns}
}

// Patterns returns the deny list for a language tag, or nil for unknown languages.
func (v *Validator) Patterns(language string) []string {
	return v.patterns[model.CodeFile{Language: language}.LanguageFamily()]
}

// Validate returns nil when the bundle may be executed.
//
// The first violation found (files in insertion order, then patterns in list order)
// is returned as an apperror.ErrValidation; there is no aggregation.
func (v *Validator) Validate(bundle *model.CodeBundle) error {
	if bundle == nil || !bundle.IsValid() {
		return apperror.ValidationFailed("bundle", InvalidBundleMessage)
	}

	for _, file := range bundle.Files() {
		for _, pattern := range v.Patterns(file.Language) {
			if strings.Contains(file.Content, pattern) {
				return apperror.ValidationFailed(file.Name,
					fmt.Sprintf("File %s contains potentially dangerous operation: %s", file.Name, pattern))
			}
		}
	}

	return nil
}
