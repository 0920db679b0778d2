// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{
		ConfigDirPath: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no resolved path, got %q", path)
	}
	if cfg.ContainerEngine != ContainerEngineAuto {
		t.Errorf("ContainerEngine = %q, want auto", cfg.ContainerEngine)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	content := `
container_engine: "podman"
cache_dir:        "/var/cache/bakery"
run: ready_timeout: "90s"
ui: verbose: true
`
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.ContainerEngine != ContainerEnginePodman {
		t.Errorf("ContainerEngine = %q, want podman", cfg.ContainerEngine)
	}
	if cfg.CacheDir != "/var/cache/bakery" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}

	d, err := cfg.Run.ReadyTimeoutDuration()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 90*time.Second {
		t.Errorf("ReadyTimeoutDuration = %v, want 90s", d)
	}
}

func TestLoad_ExplicitPathMissingFails(t *testing.T) {
	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_SchemaViolationFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(`container_engine: "lxc"`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunConfigReadyTimeoutDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{name: "empty means default", value: "", want: 0},
		{name: "seconds", value: "45s", want: 45 * time.Second},
		{name: "minutes", value: "2m", want: 2 * time.Minute},
		{name: "garbage", value: "soon", wantErr: true},
		{name: "negative", value: "-5s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := RunConfig{ReadyTimeout: tt.value}.ReadyTimeoutDuration()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidReadyTimeout) {
					t.Errorf("expected ErrInvalidReadyTimeout, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d != tt.want {
				t.Errorf("duration = %v, want %v", d, tt.want)
			}
		})
	}
}

func TestContainerEngineValidate(t *testing.T) {
	t.Parallel()

	for _, valid := range []ContainerEngine{ContainerEngineDocker, ContainerEnginePodman, ContainerEngineAuto} {
		if err := valid.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", valid, err)
		}
	}
	if err := ContainerEngine("lxc").Validate(); !errors.Is(err, ErrInvalidContainerEngine) {
		t.Errorf("expected ErrInvalidContainerEngine, got %v", err)
	}
}
