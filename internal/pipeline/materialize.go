// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// materializeStage populates an isolated build context: the application
// source tree, the manifest, and the lockfile are copied into a fresh temp
// directory before any later stage looks at them. Later stages address
// files by workspace-relative path only.
type materializeStage struct{}

func (s *materializeStage) Name() StageName        { return StageMaterialize }
func (s *materializeStage) DependsOn() []StageName { return []StageName{StageResolve} }

// Check verifies every required workspace input exists and loads the
// manifest and lockfile bytes that feed the cache key.
func (s *materializeStage) Check(_ context.Context, b *Build) error {
	sourceDir := filepath.Join(b.Recipe.Dir(), filepath.FromSlash(string(b.Recipe.Workspace.Source)))
	info, err := os.Stat(sourceDir)
	if err != nil {
		return &MaterializationError{Path: sourceDir, Err: err}
	}
	if !info.IsDir() {
		return &MaterializationError{Path: sourceDir, Err: fmt.Errorf("not a directory")}
	}
	b.SourceDir = sourceDir

	b.ManifestPath = b.hostPath(b.Recipe.Workspace.Manifest)
	b.ManifestData, err = os.ReadFile(b.ManifestPath)
	if err != nil {
		return &MaterializationError{Path: b.ManifestPath, Err: err}
	}

	b.LockfilePath = b.hostPath(b.Recipe.Workspace.Lockfile)
	b.LockfileData, err = os.ReadFile(b.LockfilePath)
	if err != nil {
		return &MaterializationError{Path: b.LockfilePath, Err: err}
	}

	return nil
}

// Run copies the workspace into a fresh build context and contributes the
// workdir and source-copy layers. The context is fully populated before Run
// returns; no later stage ever sees a half-copied tree.
func (s *materializeStage) Run(_ context.Context, b *Build) error {
	b.Dockerfile.WorkDir = b.Recipe.Workspace.WorkDir
	b.Dockerfile.CopySource = true

	if b.DryRun {
		return nil
	}

	ctxDir, err := os.MkdirTemp("", "bakery-ctx-*")
	if err != nil {
		return &MaterializationError{Path: os.TempDir(), Err: err}
	}
	b.addCleanup(func() { _ = os.RemoveAll(ctxDir) })

	if err := CopyDir(b.SourceDir, ctxDir); err != nil {
		return &MaterializationError{Path: b.SourceDir, Err: err}
	}

	// The copy is only complete if the dependency inputs made it across.
	for _, p := range []string{
		relWorkspacePath(b.Recipe.Workspace.Manifest),
		relWorkspacePath(b.Recipe.Workspace.Lockfile),
	} {
		copied := filepath.Join(ctxDir, filepath.FromSlash(p))
		if _, err := os.Stat(copied); err != nil {
			return &MaterializationError{Path: copied, Err: err}
		}
	}

	b.ContextDir = ctxDir
	b.Logger.Debug("build context materialized", "dir", ctxDir)
	return nil
}
