// SPDX-License-Identifier: MPL-2.0

package poetry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// pythonDependencyName is the reserved dependency key that constrains the
// interpreter version rather than naming an installable package.
const pythonDependencyName = "python"

var (
	// ErrManifestMissing is returned when the manifest file does not exist.
	ErrManifestMissing = errors.New("manifest file missing")

	// ErrManifestInvalid is the sentinel error wrapped by manifest parse failures.
	ErrManifestInvalid = errors.New("invalid manifest")
)

type (
	// Dependency is one direct dependency declared in the manifest:
	// a package name plus a version constraint (e.g. "^1.31").
	Dependency struct {
		Name       string
		Constraint string
	}

	// Manifest is the parsed [tool.poetry] section of a pyproject.toml:
	// project identity plus the declared direct dependencies.
	// It is read-only input to the build pipeline.
	Manifest struct {
		Name         string
		Version      string
		Dependencies []Dependency
	}

	// pyprojectDoc mirrors the TOML layout of a pyproject.toml file.
	// Dependency values are either a bare constraint string or an inline
	// table with a "version" key, so they decode as any.
	pyprojectDoc struct {
		Tool struct {
			Poetry struct {
				Name         string         `toml:"name"`
				Version      string         `toml:"version"`
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
)

// LoadManifest reads and parses a pyproject.toml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, path)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest parses pyproject.toml bytes.
// The interpreter constraint ("python") is dropped: it pins the base runtime,
// which the Environment Descriptor owns, not the package installer.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc pyprojectDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrManifestInvalid, err)
	}

	poetry := doc.Tool.Poetry
	if poetry.Name == "" {
		return nil, fmt.Errorf("%w: missing tool.poetry.name", ErrManifestInvalid)
	}

	m := &Manifest{
		Name:    poetry.Name,
		Version: poetry.Version,
	}

	for name, raw := range poetry.Dependencies {
		if NormalizeName(name) == pythonDependencyName {
			continue
		}
		constraint, err := dependencyConstraint(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: dependency %q: %s", ErrManifestInvalid, name, err)
		}
		m.Dependencies = append(m.Dependencies, Dependency{
			Name:       name,
			Constraint: constraint,
		})
	}

	// TOML table iteration order is random; sort for deterministic output.
	sort.Slice(m.Dependencies, func(i, j int) bool {
		return m.Dependencies[i].Name < m.Dependencies[j].Name
	})

	return m, nil
}

// dependencyConstraint extracts the version constraint from a dependency value.
// Poetry allows either a bare string ("^1.31") or an inline table
// ({version = "^1.31", extras = [...]}).
func dependencyConstraint(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case map[string]any:
		if version, ok := v["version"].(string); ok {
			return version, nil
		}
		// Git/path/url dependencies carry no version constraint.
		return "", nil
	default:
		return "", fmt.Errorf("unsupported constraint type %T", raw)
	}
}

// NormalizeName canonicalizes a package name the way Python indexes do
// (PEP 503): lowercase, with runs of "-", "_", "." collapsed to "-".
// Manifest and lockfile entries must be compared in normalized form.
func NormalizeName(name string) string {
	lower := strings.ToLower(name)
	var sb strings.Builder
	sb.Grow(len(lower))
	prevSep := false
	for _, r := range lower {
		if r == '-' || r == '_' || r == '.' {
			if !prevSep {
				sb.WriteRune('-')
			}
			prevSep = true
			continue
		}
		prevSep = false
		sb.WriteRune(r)
	}
	return sb.String()
}
