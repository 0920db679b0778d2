// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"bakery-cli/internal/config"
	"bakery-cli/internal/container"
	"bakery-cli/pkg/bakefile"

	"github.com/charmbracelet/log"
)

// loadRecipe resolves and parses the bakefile for the current invocation.
// The --bakefile flag wins; otherwise discovery walks up from the working
// directory looking for bakefile.cue.
func loadRecipe() (*bakefile.Bakefile, error) {
	path := recipeFile
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path, err = bakefile.Discover(cwd)
		if err != nil {
			return nil, err
		}
	}
	return bakefile.Parse(path)
}

// selectEngine picks a container engine honoring the configured preference.
// An empty preference auto-detects, trying podman first.
func selectEngine(cfg *config.Config) (container.Engine, error) {
	switch cfg.ContainerEngine {
	case config.ContainerEngineDocker:
		return container.NewEngine(container.EngineTypeDocker)
	case config.ContainerEnginePodman:
		return container.NewEngine(container.EngineTypePodman)
	default:
		return container.AutoDetectEngine()
	}
}

// newLogger creates a prefixed logger for pipeline output. Verbose mode
// lowers the level to debug.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
