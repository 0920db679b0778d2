// SPDX-License-Identifier: MPL-2.0

package bakefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the canonical recipe file name looked up by Discover.
const DefaultFileName = "bakefile.cue"

// ErrBakefileNotFound is returned by Discover when no recipe file exists in
// the searched directory or any of its parents.
var ErrBakefileNotFound = errors.New("bakefile not found")

// Bakefile is a fully parsed and schema-validated recipe.
type Bakefile struct {
	Runtime   RuntimeSpec   `json:"runtime"`
	Workspace WorkspaceSpec `json:"workspace"`
	Install   InstallSpec   `json:"install"`
	Expose    ExposeSpec    `json:"expose"`
	Launch    LaunchSpec    `json:"launch"`

	// FilePath is where the recipe was loaded from. Set by Parse, not
	// part of the recipe itself.
	FilePath string `json:"-"`
}

// Dir returns the directory containing the recipe file. Workspace paths are
// resolved relative to it.
func (b *Bakefile) Dir() string {
	return filepath.Dir(b.FilePath)
}

// Validate performs the Go-side validation pass over an already
// schema-checked recipe. It collects every issue instead of stopping at the
// first, so a broken recipe is reported in one round trip.
func (b *Bakefile) Validate() ValidationErrors {
	var errs ValidationErrors

	check := func(field string, err error) {
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
		}
	}

	check("runtime.name", b.Runtime.Name.Validate())
	check("runtime.tag", b.Runtime.Tag.Validate())
	check("runtime.digest", b.Runtime.Digest.Validate())

	check("workspace.source", b.Workspace.Source.Validate())
	check("workspace.manifest", b.Workspace.Manifest.Validate())
	check("workspace.lockfile", b.Workspace.Lockfile.Validate())

	check("install.tool", b.Install.Tool.Validate())
	check("install.version", b.Install.Version.Validate())

	check("expose.port", b.Expose.Port.Validate())

	check("launch.command", b.Launch.ValidateCommand())
	check("launch.address", b.Launch.Address.Validate())
	check("launch.port", b.Launch.Port.Validate())

	// The declared port and the bind port describe the same socket; a
	// mismatch would expose a port nothing listens on.
	if b.Expose.Port != 0 && b.Launch.Port != 0 && b.Expose.Port != b.Launch.Port {
		errs = append(errs, ValidationError{
			Field:   "launch.port",
			Message: fmt.Sprintf("must equal expose.port (%d != %d)", b.Launch.Port, b.Expose.Port),
		})
	}

	return errs
}

// Discover walks from dir upward looking for a recipe file, mirroring how
// version-control roots are found. Returns the absolute path of the first
// bakefile.cue encountered, or ErrBakefileNotFound.
func Discover(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		candidate := filepath.Join(abs, DefaultFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrBakefileNotFound, dir)
		}
		abs = parent
	}
}
