// SPDX-License-Identifier: MPL-2.0

// Package poetry reads Poetry project files: the human-authored manifest
// (pyproject.toml) and the machine-generated lockfile (poetry.lock).
//
// The build pipeline never resolves versions itself. The manifest declares
// direct dependencies with constraints; the lockfile pins the full transitive
// graph to exact versions and content hashes. Before anything is fetched, the
// pipeline checks that the lockfile covers every direct dependency; a build
// from an uncovered manifest would silently install unpinned latest versions.
package poetry
