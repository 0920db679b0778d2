// SPDX-License-Identifier: MPL-2.0

package poetry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLockfileNotCovering is the sentinel error wrapped by CoverageError.
var ErrLockfileNotCovering = errors.New("lockfile does not cover manifest")

// CoverageError reports manifest dependencies the lockfile fails to pin
// to exactly one version.
type CoverageError struct {
	// Missing are direct dependencies with no lockfile entry at all.
	Missing []string
	// Ambiguous are direct dependencies pinned to more than one version.
	Ambiguous []string
}

// Error implements the error interface.
func (e *CoverageError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("not pinned: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Ambiguous) > 0 {
		parts = append(parts, fmt.Sprintf("pinned to multiple versions: %s", strings.Join(e.Ambiguous, ", ")))
	}
	return "lockfile does not cover manifest: " + strings.Join(parts, "; ")
}

// Unwrap returns ErrLockfileNotCovering for errors.Is() compatibility.
func (e *CoverageError) Unwrap() error { return ErrLockfileNotCovering }

// Covers verifies that every direct dependency declared in the manifest is
// pinned by the lockfile, each to exactly one version. This is the
// reproducibility gate: it runs before any package is fetched, and a failure
// aborts the build.
func (lf *Lockfile) Covers(m *Manifest) error {
	covErr := &CoverageError{}

	for _, dep := range m.Dependencies {
		switch pinned := lf.Lookup(dep.Name); len(pinned) {
		case 0:
			covErr.Missing = append(covErr.Missing, dep.Name)
		case 1:
			// Covered.
		default:
			covErr.Ambiguous = append(covErr.Ambiguous, dep.Name)
		}
	}

	if len(covErr.Missing) > 0 || len(covErr.Ambiguous) > 0 {
		return covErr
	}
	return nil
}
