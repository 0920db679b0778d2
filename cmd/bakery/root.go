// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for bakery.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bakery-cli/internal/config"
	"bakery-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// recipeFile allows specifying a custom bakefile path
	recipeFile string

	// loadedConfig is the configuration resolved by initRootConfig. It is
	// never nil once cobra.OnInitialize has run: load failures fall back
	// to defaults after warning the user.
	loadedConfig = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "bakery",
		Short: "Build and launch Poetry applications as container images",
		Long: TitleStyle.Render("bakery") + SubtitleStyle.Render(" - Build and launch Poetry applications as container images") + `

bakery turns a Python project managed with Poetry into a runnable
container image: it resolves a base runtime image, copies your source
tree into an isolated build context, replays the lockfile-pinned
dependency set, and launches the application with its declared port
reachable from the host.

Recipes are defined in 'bakefile.cue' files using CUE format and are
validated against a schema before anything is fetched or built.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a bakefile.cue in your project directory
  2. Declare the runtime, workspace, port, and launch command
  3. Build and run with: bakery run

` + SubtitleStyle.Render("Examples:") + `
  bakery init               Scaffold a bakefile.cue
  bakery validate           Check the recipe and lockfile coverage
  bakery plan               Show the build plan without building
  bakery build              Build the application image
  bakery run                Build (or reuse) the image and launch the app
  bakery config show        Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/bakery/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&recipeFile, "bakefile", "f", "", "path to the bakefile (default is ./bakefile.cue)")

	// Add subcommands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return
	}
	loadedConfig = cfg

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
