// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEngineAuto lets bakery pick whichever engine is available.
	ContainerEngineAuto ContainerEngine = ""

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCacheDirPath is returned when a CacheDirPath value is whitespace-only.
	ErrInvalidCacheDirPath = errors.New("invalid cache dir path")
	// ErrInvalidReadyTimeout is returned when run.ready_timeout does not parse as a duration.
	ErrInvalidReadyTimeout = errors.New("invalid ready timeout")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// CacheDirPath represents a filesystem path to a cache directory.
	// The zero value ("") is valid and means "use the platform default".
	// Non-zero values must not be whitespace-only.
	CacheDirPath string

	// InvalidCacheDirPathError is returned when a CacheDirPath value is
	// non-empty but whitespace-only.
	InvalidCacheDirPathError struct {
		Value CacheDirPath
	}

	// RunConfig holds runtime supervision settings.
	RunConfig struct {
		// ReadyTimeout is the readiness probe window as a Go duration
		// string. Empty means the supervisor default.
		ReadyTimeout string `mapstructure:"ready_timeout"`
	}

	// UIConfig holds terminal presentation settings.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}

	// Config is bakery's own configuration.
	Config struct {
		ContainerEngine ContainerEngine `mapstructure:"container_engine"`
		CacheDir        CacheDirPath    `mapstructure:"cache_dir"`
		Run             RunConfig       `mapstructure:"run"`
		UI              UIConfig        `mapstructure:"ui"`
	}
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineAuto,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman, or empty for auto)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// String returns the string representation of the ContainerEngine.
func (c ContainerEngine) String() string { return string(c) }

// Validate returns nil if the ContainerEngine is valid, or a validation error if not.
func (c ContainerEngine) Validate() error {
	switch c {
	case ContainerEnginePodman, ContainerEngineDocker, ContainerEngineAuto:
		return nil
	default:
		return &InvalidContainerEngineError{Value: c}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns nil if the ColorScheme is valid, or a validation error if not.
// The zero value ("") is valid and treated as "auto".
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight, "":
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface for InvalidCacheDirPathError.
func (e *InvalidCacheDirPathError) Error() string {
	return fmt.Sprintf("invalid cache dir path %q (must not be whitespace-only)", e.Value)
}

// Unwrap returns ErrInvalidCacheDirPath for errors.Is() compatibility.
func (e *InvalidCacheDirPathError) Unwrap() error { return ErrInvalidCacheDirPath }

// String returns the string representation of the CacheDirPath.
func (p CacheDirPath) String() string { return string(p) }

// Validate returns nil if the CacheDirPath is valid, or a validation error if not.
func (p CacheDirPath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidCacheDirPathError{Value: p}
	}
	return nil
}

// ReadyTimeoutDuration parses the configured readiness window. Zero means
// "use the supervisor default".
func (r RunConfig) ReadyTimeoutDuration() (time.Duration, error) {
	if r.ReadyTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.ReadyTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidReadyTimeout, r.ReadyTimeout)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %q must not be negative", ErrInvalidReadyTimeout, r.ReadyTimeout)
	}
	return d, nil
}

// Validate checks every typed field of the Config.
func (c *Config) Validate() error {
	if err := c.ContainerEngine.Validate(); err != nil {
		return err
	}
	if err := c.CacheDir.Validate(); err != nil {
		return err
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		return err
	}
	if _, err := c.Run.ReadyTimeoutDuration(); err != nil {
		return err
	}
	return nil
}
