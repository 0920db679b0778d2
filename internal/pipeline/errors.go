// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrResolutionFailed is the sentinel error wrapped by ResolutionError.
	ErrResolutionFailed = errors.New("base environment resolution failed")

	// ErrMaterializationFailed is the sentinel error wrapped by MaterializationError.
	ErrMaterializationFailed = errors.New("workspace materialization failed")

	// ErrInstallFailed is the sentinel error wrapped by InstallError.
	ErrInstallFailed = errors.New("dependency installation failed")

	// ErrLaunchSpecInvalid is the sentinel error wrapped by LaunchError.
	ErrLaunchSpecInvalid = errors.New("launch specification invalid")
)

type (
	// ResolutionError is returned when the base image named by the recipe
	// cannot be made available locally (unknown tag or digest, registry
	// unreachable after retries).
	ResolutionError struct {
		// Reference is the image reference that failed to resolve.
		Reference string
		// Err is the underlying engine error, if any.
		Err error
	}

	// MaterializationError is returned when a required workspace input
	// (source tree, manifest, lockfile) is missing or the build context
	// cannot be populated.
	MaterializationError struct {
		// Path is the file or directory that caused the failure.
		Path string
		// Err is the underlying filesystem error, if any.
		Err error
	}

	// InstallError is returned when the dependency installer stage fails:
	// an unparseable manifest or lockfile, a lockfile that does not cover
	// the manifest, or a failed install replay during the image build.
	InstallError struct {
		// Reason is a short description of what went wrong.
		Reason string
		// Err is the underlying error, if any.
		Err error
	}

	// LaunchError is returned when the launch specification is empty or
	// malformed, or when the launched process cannot be supervised.
	LaunchError struct {
		// Reason is a short description of what went wrong.
		Reason string
		// Err is the underlying error, if any.
		Err error
	}
)

// Error implements the error interface for ResolutionError.
func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to resolve base image %q: %v", e.Reference, e.Err)
	}
	return fmt.Sprintf("failed to resolve base image %q", e.Reference)
}

// Unwrap returns ErrResolutionFailed plus the underlying cause for
// errors.Is() compatibility.
func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResolutionFailed}
	}
	return []error{ErrResolutionFailed, e.Err}
}

// Error implements the error interface for MaterializationError.
func (e *MaterializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to materialize workspace input %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to materialize workspace input %q", e.Path)
}

// Unwrap returns ErrMaterializationFailed plus the underlying cause for
// errors.Is() compatibility.
func (e *MaterializationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMaterializationFailed}
	}
	return []error{ErrMaterializationFailed, e.Err}
}

// Error implements the error interface for InstallError.
func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dependency installation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("dependency installation failed: %s", e.Reason)
}

// Unwrap returns ErrInstallFailed plus the underlying cause for
// errors.Is() compatibility.
func (e *InstallError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInstallFailed}
	}
	return []error{ErrInstallFailed, e.Err}
}

// Error implements the error interface for LaunchError.
func (e *LaunchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid launch specification: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid launch specification: %s", e.Reason)
}

// Unwrap returns ErrLaunchSpecInvalid plus the underlying cause for
// errors.Is() compatibility.
func (e *LaunchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLaunchSpecInvalid}
	}
	return []error{ErrLaunchSpecInvalid, e.Err}
}
