// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"bakery-cli/internal/container"
	"bakery-cli/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	buildForceRebuild bool
	buildImageTag     string

	// buildCmd runs the image build pipeline
	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build the application image",
		Long: `Build a container image from the bakefile in the current directory.

The pipeline resolves the base runtime image, copies the workspace into
an isolated build context, replays the lockfile-pinned dependency set,
and records the declared port and launch command in the image. Builds
whose inputs (runtime descriptor, manifest, lockfile) are unchanged
reuse the cached image instead of rebuilding.`,
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().BoolVar(&buildForceRebuild, "force-rebuild", false, "rebuild even when a cached image matches the inputs")
	buildCmd.Flags().StringVarP(&buildImageTag, "tag", "t", "", "tag for the built image (default bakery-app:<cache-key>)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	recipe, err := loadRecipe()
	if err != nil {
		return reportFailure(nil, err)
	}

	engine, err := selectEngine(loadedConfig)
	if err != nil {
		return reportFailure(recipe, err)
	}

	opts := []pipeline.BuilderOption{
		pipeline.WithLogger(newLogger("build")),
		pipeline.WithForceRebuild(buildForceRebuild),
		pipeline.WithBuildOutput(cmd.OutOrStdout()),
	}
	if buildImageTag != "" {
		opts = append(opts, pipeline.WithImageTag(container.ImageTag(buildImageTag)))
	}

	builder := pipeline.NewBuilder(recipe, engine, opts...)
	result, err := builder.Run(cmd.Context())
	if err != nil {
		return reportFailure(recipe, err)
	}

	stdout := cmd.OutOrStdout()
	if result.SkippedBuild {
		fmt.Fprintf(stdout, "%s Reused cached image %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(string(result.Image)))
	} else {
		fmt.Fprintf(stdout, "%s Built image %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(string(result.Image)))
	}
	if verbose {
		fmt.Fprintf(stdout, "%s cache key %s\n", SubtitleStyle.Render("·"), result.CacheKey)
	}
	return nil
}
