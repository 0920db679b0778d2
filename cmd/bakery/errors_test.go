// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"bakery-cli/internal/container"
	"bakery-cli/internal/issue"
	"bakery-cli/internal/launch"
	"bakery-cli/internal/pipeline"
	"bakery-cli/pkg/bakefile"
	"bakery-cli/pkg/poetry"
)

func TestClassifyPipelineError(t *testing.T) {
	t.Parallel()

	recipe := &bakefile.Bakefile{
		Workspace: bakefile.WorkspaceSpec{
			Source:   ".",
			Manifest: "pyproject.toml",
			Lockfile: "poetry.lock",
		},
	}

	tests := []struct {
		name        string
		err         error
		wantIssueID issue.Id
		wantInStyle []string
	}{
		{
			name:        "container engine unavailable maps to engine issue",
			err:         &container.ErrEngineNotAvailable{Engine: "podman", Reason: "not installed"},
			wantIssueID: issue.ContainerEngineNotFoundId,
			wantInStyle: []string{"Error:", "container engine 'podman' is not available"},
		},
		{
			name:        "missing bakefile maps to not-found issue",
			err:         fmt.Errorf("wrapped: %w", bakefile.ErrBakefileNotFound),
			wantIssueID: issue.BakefileNotFoundId,
			wantInStyle: []string{"bakefile not found"},
		},
		{
			name:        "pull failure maps to base image issue",
			err:         &pipeline.ResolutionError{Reference: "python:3.11-slim", Err: errors.New("registry unreachable")},
			wantIssueID: issue.BaseImageUnavailableId,
			wantInStyle: []string{"python:3.11-slim"},
		},
		{
			name: "lockfile coverage gap maps to stale lockfile issue",
			err: &pipeline.InstallError{
				Reason: "lockfile does not cover manifest",
				Err:    &poetry.CoverageError{Missing: []string{"requests"}},
			},
			wantIssueID: issue.LockfileStaleId,
			wantInStyle: []string{"requests"},
		},
		{
			name:        "missing lockfile maps to lockfile issue",
			err:         &pipeline.MaterializationError{Path: "/proj/poetry.lock", Err: errors.New("no such file")},
			wantIssueID: issue.LockfileMissingId,
			wantInStyle: []string{"poetry.lock"},
		},
		{
			name:        "missing source tree maps to source issue",
			err:         &pipeline.MaterializationError{Path: "/proj/src", Err: errors.New("no such directory")},
			wantIssueID: issue.SourceTreeMissingId,
			wantInStyle: []string{"/proj/src"},
		},
		{
			name:        "image build failure maps to stale lockfile issue",
			err:         &pipeline.InstallError{Reason: "image build failed", Err: errors.New("exit status 1")},
			wantIssueID: issue.LockfileStaleId,
			wantInStyle: []string{"image build failed"},
		},
		{
			name:        "startup timeout maps to launch issue",
			err:         fmt.Errorf("wrapped: %w", launch.ErrStartupTimeout),
			wantIssueID: issue.LaunchFailedId,
			wantInStyle: []string{"ready"},
		},
		{
			name:        "invalid launch spec maps to launch issue",
			err:         &pipeline.LaunchError{Reason: "empty command", Err: nil},
			wantIssueID: issue.LaunchFailedId,
			wantInStyle: []string{"empty command"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotID, gotStyled := classifyPipelineError(recipe, tt.err)

			if gotID != tt.wantIssueID {
				t.Errorf("classifyPipelineError() issueID = %v, want %v", gotID, tt.wantIssueID)
			}
			for _, want := range tt.wantInStyle {
				if !strings.Contains(gotStyled, want) {
					t.Errorf("styled message missing %q:\n%s", want, gotStyled)
				}
			}
		})
	}
}

func TestClassifyMaterializationWithoutRecipe(t *testing.T) {
	t.Parallel()

	matErr := &pipeline.MaterializationError{Path: "/proj/poetry.lock", Err: errors.New("no such file")}
	if got := classifyMaterialization(nil, matErr); got != issue.SourceTreeMissingId {
		t.Errorf("classifyMaterialization(nil recipe) = %v, want SourceTreeMissingId", got)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	bare := &ExitError{Code: 3}
	if got := bare.Error(); got != "exit status 3" {
		t.Errorf("Error() = %q, want %q", got, "exit status 3")
	}

	cause := errors.New("boom")
	wrapped := &ExitError{Code: 1, Err: cause}
	if got := wrapped.Error(); got != "boom" {
		t.Errorf("Error() = %q, want %q", got, "boom")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is() should reach the wrapped cause")
	}
}
