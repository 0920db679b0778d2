// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"

	"bakery-cli/pkg/poetry"
)

// poetryCacheDir is where the installer writes its download cache inside
// the build; the install layer removes it so caches never persist into the
// image.
const poetryCacheDir = "/tmp/poetry-cache"

// installStage replays the lockfile inside the image. Its Check is the
// reproducibility gate: every manifest dependency must be pinned by exactly
// one lockfile package before anything is fetched.
type installStage struct{}

func (s *installStage) Name() StageName        { return StageInstall }
func (s *installStage) DependsOn() []StageName { return []StageName{StageMaterialize} }

func (s *installStage) Check(_ context.Context, b *Build) error {
	manifest, err := poetry.ParseManifest(b.ManifestData)
	if err != nil {
		return &InstallError{Reason: fmt.Sprintf("unreadable manifest %s", b.ManifestPath), Err: err}
	}
	lockfile, err := poetry.ParseLockfile(b.LockfileData)
	if err != nil {
		return &InstallError{Reason: fmt.Sprintf("unreadable lockfile %s", b.LockfilePath), Err: err}
	}

	if err := lockfile.Covers(manifest); err != nil {
		return &InstallError{Reason: "lockfile does not pin every manifest dependency", Err: err}
	}

	b.Manifest = manifest
	b.Lockfile = lockfile
	b.Logger.Debug("lockfile covers manifest",
		"dependencies", len(manifest.Dependencies),
		"locked_packages", len(lockfile.Packages))
	return nil
}

// Run contributes the dependency layers: pinned installer tool, installer
// environment, lockfile replay, cache purge. The engine is never called
// here; the layers execute during the image build.
func (s *installStage) Run(_ context.Context, b *Build) error {
	install := b.Recipe.Install

	b.Dockerfile.DependencyFiles = []string{
		relWorkspacePath(b.Recipe.Workspace.Manifest),
		relWorkspacePath(b.Recipe.Workspace.Lockfile),
	}

	b.Dockerfile.Env = []EnvVar{
		{Key: "POETRY_VIRTUALENVS_CREATE", Value: boolStr(install.NestedVirtualenvs)},
		{Key: "POETRY_NO_INTERACTION", Value: "1"},
		{Key: "POETRY_CACHE_DIR", Value: poetryCacheDir},
	}

	b.Dockerfile.InstallCommands = []string{
		fmt.Sprintf("pip install --no-cache-dir %s==%s", install.Tool, install.Version),
		fmt.Sprintf("%s install --no-interaction --no-root && rm -rf %s", install.Tool, poetryCacheDir),
	}

	return nil
}

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
