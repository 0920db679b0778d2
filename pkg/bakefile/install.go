// SPDX-License-Identifier: MPL-2.0

package bakefile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInstallerTool is the sentinel error wrapped by InvalidInstallerToolError.
	ErrInvalidInstallerTool = errors.New("invalid installer tool")
	// ErrInvalidInstallerVersion is the sentinel error wrapped by InvalidInstallerVersionError.
	ErrInvalidInstallerVersion = errors.New("invalid installer version")
)

type (
	// InstallerTool names the dependency installer. Currently only "poetry"
	// is supported.
	InstallerTool string

	// InstallerVersion is an exact installer version pin (e.g. "1.8.3").
	// Ranges and empty values are rejected: an unpinned installer makes the
	// build non-reproducible.
	InstallerVersion string

	// InvalidInstallerToolError is returned when an InstallerTool is not supported.
	InvalidInstallerToolError struct {
		Value InstallerTool
	}

	// InvalidInstallerVersionError is returned when an InstallerVersion is
	// empty, whitespace-only, or a range expression.
	InvalidInstallerVersionError struct {
		Value  InstallerVersion
		Reason string
	}

	// InstallSpec configures the dependency installer stage.
	InstallSpec struct {
		Tool    InstallerTool    `json:"tool"`
		Version InstallerVersion `json:"version"`
		// NestedVirtualenvs controls whether the installer creates a
		// virtualenv inside the image. The image is already the isolation
		// boundary, so this defaults to false.
		NestedVirtualenvs bool `json:"nested_virtualenvs"`
	}
)

// InstallerPoetry is the only installer tool currently supported.
const InstallerPoetry InstallerTool = "poetry"

// String returns the string representation of the InstallerTool.
func (t InstallerTool) String() string { return string(t) }

// Validate returns nil if the InstallerTool is valid, or a validation error if not.
func (t InstallerTool) Validate() error {
	if t != InstallerPoetry {
		return &InvalidInstallerToolError{Value: t}
	}
	return nil
}

// String returns the string representation of the InstallerVersion.
func (v InstallerVersion) String() string { return string(v) }

// Validate returns nil if the InstallerVersion is valid, or a validation error if not.
func (v InstallerVersion) Validate() error {
	s := string(v)
	if strings.TrimSpace(s) == "" {
		return &InvalidInstallerVersionError{Value: v, Reason: "must not be empty"}
	}
	// Range operators would reintroduce version drift.
	if strings.ContainsAny(s, "^~*<>= ") {
		return &InvalidInstallerVersionError{Value: v, Reason: "must be an exact version, not a range"}
	}
	return nil
}

// Error implements the error interface for InvalidInstallerToolError.
func (e *InvalidInstallerToolError) Error() string {
	return fmt.Sprintf("invalid installer tool %q (supported: %s)", e.Value, InstallerPoetry)
}

// Unwrap returns ErrInvalidInstallerTool for errors.Is() compatibility.
func (e *InvalidInstallerToolError) Unwrap() error { return ErrInvalidInstallerTool }

// Error implements the error interface for InvalidInstallerVersionError.
func (e *InvalidInstallerVersionError) Error() string {
	return fmt.Sprintf("invalid installer version %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidInstallerVersion for errors.Is() compatibility.
func (e *InvalidInstallerVersionError) Unwrap() error { return ErrInvalidInstallerVersion }
