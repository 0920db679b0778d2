// SPDX-License-Identifier: MPL-2.0

package bakefile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidWorkspacePath is the sentinel error wrapped by InvalidWorkspacePathError.
var ErrInvalidWorkspacePath = errors.New("invalid workspace path")

type (
	// WorkspacePath is a path inside the workspace section of a recipe.
	// All workspace paths are relative to the recipe's directory (or, for
	// manifest and lockfile, relative to the source directory). Absolute
	// paths and parent traversal are rejected so that a recipe can never
	// reach outside its own tree.
	WorkspacePath string

	// InvalidWorkspacePathError is returned when a WorkspacePath is empty,
	// absolute, or escapes the workspace via "..".
	InvalidWorkspacePathError struct {
		Value  WorkspacePath
		Reason string
	}

	// WorkspaceSpec describes the workspace layout: where the application
	// source, manifest, and lockfile live on the host, and the working
	// directory inside the image.
	WorkspaceSpec struct {
		Source   WorkspacePath `json:"source"`
		Manifest WorkspacePath `json:"manifest"`
		Lockfile WorkspacePath `json:"lockfile"`
		WorkDir  string        `json:"workdir"`
	}
)

// String returns the string representation of the WorkspacePath.
func (p WorkspacePath) String() string { return string(p) }

// Validate returns nil if the WorkspacePath is valid, or a validation error if not.
func (p WorkspacePath) Validate() error {
	s := string(p)
	if strings.TrimSpace(s) == "" {
		return &InvalidWorkspacePathError{Value: p, Reason: "must not be empty"}
	}
	if filepath.IsAbs(s) {
		return &InvalidWorkspacePathError{Value: p, Reason: "must be relative"}
	}
	clean := filepath.Clean(s)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return &InvalidWorkspacePathError{Value: p, Reason: "must not escape the workspace"}
	}
	return nil
}

// Error implements the error interface for InvalidWorkspacePathError.
func (e *InvalidWorkspacePathError) Error() string {
	return fmt.Sprintf("invalid workspace path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidWorkspacePath for errors.Is() compatibility.
func (e *InvalidWorkspacePathError) Unwrap() error { return ErrInvalidWorkspacePath }
