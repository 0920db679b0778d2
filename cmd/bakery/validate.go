// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"bakery-cli/internal/pipeline"

	"github.com/spf13/cobra"
)

// validateCmd checks the recipe and the workspace without building anything
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the bakefile and lockfile coverage",
	Long: `Validate the bakefile and the workspace it references.

Validation parses the recipe against its schema, then runs every
pipeline stage's host-side checks: the runtime descriptor, the source
tree, the manifest and lockfile, the declared port, and the launch
command are all verified. In particular, every direct dependency in
the manifest must be pinned in the lockfile. Nothing is fetched or
built.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	stdout := cmd.OutOrStdout()

	recipe, err := loadRecipe()
	if err != nil {
		return reportFailure(nil, err)
	}
	fmt.Fprintf(stdout, "%s Recipe %s is well-formed\n", SuccessStyle.Render("✓"), CmdStyle.Render(recipe.FilePath))

	builder := pipeline.NewBuilder(recipe, nil, pipeline.WithLogger(newLogger("validate")))
	if err := builder.Verify(cmd.Context()); err != nil {
		return reportFailure(recipe, err)
	}

	fmt.Fprintf(stdout, "%s Workspace checks passed (source, manifest, lockfile coverage)\n", SuccessStyle.Render("✓"))
	fmt.Fprintf(stdout, "%s Launch command and port declaration are consistent\n", SuccessStyle.Render("✓"))
	return nil
}
