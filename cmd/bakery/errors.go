// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bakery-cli/internal/container"
	"bakery-cli/internal/issue"
	"bakery-cli/internal/launch"
	"bakery-cli/internal/pipeline"
	"bakery-cli/pkg/bakefile"
	"bakery-cli/pkg/poetry"
)

// classifyPipelineError maps build/launch failures to issue catalog IDs and
// returns a styled message for CLI rendering. It preserves actionable error details.
func classifyPipelineError(recipe *bakefile.Bakefile, err error) (issueID issue.Id, styledMsg string) {
	issueID = issue.BakefileParseErrorId

	var engineErr *container.ErrEngineNotAvailable
	var matErr *pipeline.MaterializationError

	switch {
	case errors.As(err, &engineErr):
		issueID = issue.ContainerEngineNotFoundId
	case errors.Is(err, bakefile.ErrBakefileNotFound):
		issueID = issue.BakefileNotFoundId
	case errors.Is(err, pipeline.ErrResolutionFailed):
		issueID = issue.BaseImageUnavailableId
	case errors.Is(err, poetry.ErrLockfileNotCovering):
		issueID = issue.LockfileStaleId
	case errors.As(err, &matErr):
		issueID = classifyMaterialization(recipe, matErr)
	case errors.Is(err, pipeline.ErrInstallFailed):
		issueID = issue.LockfileStaleId
	case errors.Is(err, launch.ErrStartupTimeout),
		errors.Is(err, launch.ErrAlreadyStarted),
		errors.Is(err, pipeline.ErrLaunchSpecInvalid):
		issueID = issue.LaunchFailedId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// classifyMaterialization distinguishes a missing lockfile from a missing
// source tree so the user gets the remediation that matches the gap.
func classifyMaterialization(recipe *bakefile.Bakefile, matErr *pipeline.MaterializationError) issue.Id {
	if recipe != nil && matErr.Path != "" {
		lockfile := filepath.ToSlash(string(recipe.Workspace.Lockfile))
		if strings.HasSuffix(filepath.ToSlash(matErr.Path), lockfile) {
			return issue.LockfileMissingId
		}
	}
	return issue.SourceTreeMissingId
}

// reportFailure renders the issue catalog entry for the given ID followed by
// the styled error message, and returns an ExitError for main to translate.
func reportFailure(recipe *bakefile.Bakefile, err error) error {
	issueID, styledMsg := classifyPipelineError(recipe, err)
	if rendered, renderErr := issue.Get(issueID).Render(issueStyle()); renderErr == nil {
		fmt.Fprint(os.Stderr, rendered)
	}
	fmt.Fprintln(os.Stderr, styledMsg)
	return &ExitError{Code: 1, Err: err}
}

// issueStyle maps the configured color scheme to a glamour style name.
func issueStyle() string {
	if loadedConfig != nil && loadedConfig.UI.ColorScheme == "light" {
		return "light"
	}
	return "dark"
}
