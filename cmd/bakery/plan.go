// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"bakery-cli/internal/pipeline"

	"github.com/spf13/cobra"
)

// planCmd prints the build plan without touching an engine or the filesystem
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the build plan without building",
	Long: `Show the stage order and the image definition that 'bakery build'
would produce, without pulling, copying, or building anything.

The plan is derived purely from the bakefile and the workspace's
manifest and lockfile, so it is safe to run offline.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	recipe, err := loadRecipe()
	if err != nil {
		return reportFailure(nil, err)
	}

	builder := pipeline.NewBuilder(recipe, nil,
		pipeline.WithLogger(newLogger("plan")),
		pipeline.WithDryRun(true),
	)

	order, err := builder.StageOrder()
	if err != nil {
		return reportFailure(recipe, err)
	}

	result, err := builder.Run(cmd.Context())
	if err != nil {
		return reportFailure(recipe, err)
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout, TitleStyle.Render("Build Plan"))
	fmt.Fprintln(stdout)

	names := make([]string, len(order))
	for i, stage := range order {
		names[i] = string(stage)
	}
	fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Stages"), strings.Join(names, " -> "))
	fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Image"), result.Image)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, SubtitleStyle.Render("Dockerfile:"))
	fmt.Fprintln(stdout, result.Dockerfile)
	return nil
}
