// SPDX-License-Identifier: MPL-2.0

package poetry

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrLockfileMissing is returned when the lockfile does not exist.
	// A missing lockfile always aborts the build: proceeding would mean
	// resolving versions at build time, which breaks reproducibility.
	ErrLockfileMissing = errors.New("lockfile missing")

	// ErrLockfileInvalid is the sentinel error wrapped by lockfile parse failures.
	ErrLockfileInvalid = errors.New("invalid lockfile")
)

type (
	// LockedPackage is one fully resolved package pinned by the lockfile:
	// exact version plus the content hashes of its distribution files.
	LockedPackage struct {
		Name    string   `toml:"name"`
		Version string   `toml:"version"`
		Hashes  []string `toml:"-"`
	}

	// Lockfile is the parsed poetry.lock: the fully resolved, transitively
	// pinned dependency graph derived from a manifest. ContentHash digests
	// the manifest inputs the lockfile was resolved from; Poetry uses it to
	// detect a stale lockfile.
	Lockfile struct {
		Packages    []LockedPackage
		LockVersion string
		ContentHash string
	}

	// lockfileDoc mirrors the TOML layout of a poetry.lock file.
	lockfileDoc struct {
		Package []struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
			Files   []struct {
				File string `toml:"file"`
				Hash string `toml:"hash"`
			} `toml:"files"`
		} `toml:"package"`
		Metadata struct {
			LockVersion string `toml:"lock-version"`
			ContentHash string `toml:"content-hash"`
		} `toml:"metadata"`
	}
)

// LoadLockfile reads and parses a poetry.lock file.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLockfileMissing, path)
		}
		return nil, fmt.Errorf("read lockfile %s: %w", path, err)
	}
	return ParseLockfile(data)
}

// ParseLockfile parses poetry.lock bytes.
func ParseLockfile(data []byte) (*Lockfile, error) {
	var doc lockfileDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLockfileInvalid, err)
	}

	lf := &Lockfile{
		LockVersion: doc.Metadata.LockVersion,
		ContentHash: doc.Metadata.ContentHash,
	}

	for _, p := range doc.Package {
		if p.Name == "" || p.Version == "" {
			return nil, fmt.Errorf("%w: package entry missing name or version", ErrLockfileInvalid)
		}
		pkg := LockedPackage{Name: p.Name, Version: p.Version}
		for _, f := range p.Files {
			if f.Hash != "" {
				pkg.Hashes = append(pkg.Hashes, f.Hash)
			}
		}
		lf.Packages = append(lf.Packages, pkg)
	}

	return lf, nil
}

// Lookup returns every pinned version recorded for the given package name.
// Name comparison uses PEP 503 normalization. Poetry emits at most one entry
// per package in a single-environment lockfile, so more than one result
// means the lockfile cannot be replayed deterministically.
func (lf *Lockfile) Lookup(name string) []LockedPackage {
	want := NormalizeName(name)
	var found []LockedPackage
	for _, p := range lf.Packages {
		if NormalizeName(p.Name) == want {
			found = append(found, p)
		}
	}
	return found
}
