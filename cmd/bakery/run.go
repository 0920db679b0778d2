// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"bakery-cli/internal/container"
	"bakery-cli/internal/launch"
	"bakery-cli/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	runForceRebuild bool
	runNoWait       bool
	runPublish      uint16
	runName         string

	// runCmd builds (or reuses) the image and launches the application
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Build the image and launch the application",
		Long: `Build the application image (reusing the cache when the inputs are
unchanged) and launch it with the declared port mapped to the host.

The application binds the wildcard address inside the container so the
declared port is reachable through the mapping. bakery waits until the
application answers on that port before reporting it ready; a process
that exits before becoming ready is reported as crashed, and bakery
never restarts it.`,
		RunE: runRun,
	}
)

func init() {
	runCmd.Flags().BoolVar(&runForceRebuild, "force-rebuild", false, "rebuild even when a cached image matches the inputs")
	runCmd.Flags().BoolVar(&runNoWait, "no-wait", false, "skip the readiness probe")
	runCmd.Flags().Uint16VarP(&runPublish, "publish", "p", 0, "host port to map (default: the declared port)")
	runCmd.Flags().StringVar(&runName, "name", "", "container name")
}

func runRun(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	recipe, err := loadRecipe()
	if err != nil {
		return reportFailure(nil, err)
	}

	engine, err := selectEngine(loadedConfig)
	if err != nil {
		return reportFailure(recipe, err)
	}

	builder := pipeline.NewBuilder(recipe, engine,
		pipeline.WithLogger(newLogger("build")),
		pipeline.WithForceRebuild(runForceRebuild),
		pipeline.WithBuildOutput(cmd.ErrOrStderr()),
	)
	result, err := builder.Run(cmd.Context())
	if err != nil {
		return reportFailure(recipe, err)
	}

	readyTimeout, err := loadedConfig.Run.ReadyTimeoutDuration()
	if err != nil {
		return reportFailure(recipe, err)
	}

	supervisor := launch.NewSupervisor(engine, launch.Config{
		Image:         result.Image,
		ContainerPort: container.NetworkPort(recipe.Expose.Port),
		HostPort:      container.NetworkPort(runPublish),
		Name:          runName,
		ReadyTimeout:  readyTimeout,
		NoWait:        runNoWait,
		Stdout:        cmd.OutOrStdout(),
		Stderr:        cmd.ErrOrStderr(),
	}, newLogger("launch"))

	status, err := supervisor.Run(cmd.Context())
	if err != nil {
		return reportFailure(recipe, err)
	}

	if status.State == launch.StateCrashed {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s application crashed (exit code %d)\n",
			ErrorStyle.Render("✗"), status.ExitCode)
		code := status.ExitCode
		if code == 0 {
			code = 1
		}
		return &ExitError{Code: code}
	}

	if status.ExitCode != 0 {
		return &ExitError{Code: status.ExitCode}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s application exited cleanly\n", SuccessStyle.Render("✓"))
	return nil
}
