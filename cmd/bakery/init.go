// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"bakery-cli/pkg/bakefile"

	"github.com/spf13/cobra"
)

var (
	initForce    bool
	initTemplate string

	// initCmd creates a new bakefile
	initCmd = &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a new bakefile in the current directory",
		Long: `Create a new bakefile in the current directory.

This command generates a starter bakefile.cue describing a typical
Poetry-managed Streamlit application, ready to adjust to your project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing bakefile")
	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "default", "template to use (default, minimal)")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := bakefile.DefaultFileName
	if len(args) > 0 {
		filename = args[0]
	}

	// Check if file exists
	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	// Generate content based on template
	content := generateBakefile(initTemplate)

	// Write file
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Point launch.command at your application's entry point")
	fmt.Println("  2. Run 'bakery validate' to check the recipe and lockfile")
	fmt.Println("  3. Run 'bakery run' to build the image and launch the app")

	return nil
}

func generateBakefile(template string) string {
	switch template {
	case "minimal":
		return `runtime: {
	name: "python"
	tag:  "3.11-slim"
}

workspace: {
	source:   "."
	manifest: "pyproject.toml"
	lockfile: "poetry.lock"
}

install: version: "1.8.3"

expose: port: 8501

launch: {
	command: ["streamlit", "run", "app.py"]
	port: 8501
}
`

	default:
		return `// bakefile.cue - build and launch recipe for a Poetry-managed application.
// Validate with 'bakery validate', preview with 'bakery plan'.

runtime: {
	name: "python"
	tag:  "3.11-slim"
	// Pin to a digest for a content-addressed base image:
	// digest: "sha256:..."
}

workspace: {
	// Paths are relative to this file's directory.
	source:   "."
	manifest: "pyproject.toml"
	lockfile: "poetry.lock"
	workdir:  "/app"
}

install: {
	tool:    "poetry"
	version: "1.8.3"
	// The application runs inside a container, so a nested virtualenv
	// adds nothing. Flip this if your entry point expects one.
	nested_virtualenvs: false
}

expose: port: 8501

launch: {
	command: ["streamlit", "run", "app.py"]
	address: "0.0.0.0"
	port:    8501
}
`
	}
}
