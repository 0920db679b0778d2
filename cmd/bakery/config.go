// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bakery-cli/internal/config"
	"bakery-cli/internal/issue"

	"github.com/spf13/cobra"
)

// configCmd is the `bakery config` command tree
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bakery configuration",
	Long: `Manage bakery configuration.

Configuration is stored in:
  - Linux: ~/.config/bakery/config.cue
  - macOS: ~/Library/Application Support/bakery/config.cue
  - Windows: %APPDATA%\bakery\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, path, err := config.LoadWithPath(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render(issueStyle()); renderErr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
		return err
	}

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if path != "" {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	engine := string(cfg.ContainerEngine)
	if engine == "" {
		engine = "auto"
	}
	fmt.Printf("%s: %s\n", CmdStyle.Render("container_engine"), SuccessStyle.Render(engine))

	cacheDir, cacheErr := config.CacheDir(cfg)
	if cacheErr == nil {
		fmt.Printf("%s: %s\n", CmdStyle.Render("cache_dir"), SuccessStyle.Render(cacheDir))
	}

	readyTimeout := cfg.Run.ReadyTimeout
	if readyTimeout == "" {
		readyTimeout = "60s"
	}
	fmt.Printf("%s: %s\n", CmdStyle.Render("run.ready_timeout"), SuccessStyle.Render(readyTimeout))
	fmt.Printf("%s: %s\n", CmdStyle.Render("ui.color_scheme"), SuccessStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("%s: %v\n", CmdStyle.Render("ui.verbose"), cfg.UI.Verbose)

	return nil
}

// defaultConfigContent is what `bakery config init` writes: every knob
// present, commented out, at its default value.
const defaultConfigContent = `// bakery configuration file.
// Uncomment and adjust the settings you want to change.

// Container engine: "podman", "docker", or omit for auto-detection.
// container_engine: "podman"

// Directory for cached artifacts (defaults to $XDG_CACHE_HOME/bakery).
// cache_dir: "/home/user/.cache/bakery"

// run: {
// 	// How long to wait for the application to answer on its port.
// 	ready_timeout: "60s"
// }

// ui: {
// 	color_scheme: "auto"
// 	verbose:      false
// }
`

func initConfigFile() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to determine config directory: %w", err)
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("config file already exists at %s", cfgPath)
	}

	if err := os.WriteFile(cfgPath, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to determine config directory: %w", err)
	}
	fmt.Println(filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
