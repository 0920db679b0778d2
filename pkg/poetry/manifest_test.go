// SPDX-License-Identifier: MPL-2.0

package poetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const samplePyproject = `
[tool.poetry]
name = "dataviz-app"
version = "0.1.0"
description = "A data visualization app"

[tool.poetry.dependencies]
python = "^3.11"
streamlit = "^1.31"
requests = { version = "^2.31", extras = ["security"] }
Pandas = "^2.2"

[build-system]
requires = ["poetry-core"]
build-backend = "poetry.core.masonry.api"
`

func TestParseManifest(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte(samplePyproject))
	if err != nil {
		t.Fatalf("ParseManifest() error: %v", err)
	}

	if m.Name != "dataviz-app" {
		t.Errorf("Name = %q, want %q", m.Name, "dataviz-app")
	}
	if m.Version != "0.1.0" {
		t.Errorf("Version = %q, want %q", m.Version, "0.1.0")
	}

	// python is an interpreter constraint, not an installable dependency.
	want := []Dependency{
		{Name: "Pandas", Constraint: "^2.2"},
		{Name: "requests", Constraint: "^2.31"},
		{Name: "streamlit", Constraint: "^1.31"},
	}
	if len(m.Dependencies) != len(want) {
		t.Fatalf("Dependencies = %+v, want %d entries", m.Dependencies, len(want))
	}
	for i, dep := range want {
		if m.Dependencies[i] != dep {
			t.Errorf("Dependencies[%d] = %+v, want %+v", i, m.Dependencies[i], dep)
		}
	}
}

func TestParseManifest_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := ParseManifest([]byte(samplePyproject))
	if err != nil {
		t.Fatalf("ParseManifest() error: %v", err)
	}
	for range 10 {
		again, err := ParseManifest([]byte(samplePyproject))
		if err != nil {
			t.Fatalf("ParseManifest() error: %v", err)
		}
		for i := range first.Dependencies {
			if again.Dependencies[i] != first.Dependencies[i] {
				t.Fatalf("dependency order not deterministic: %+v vs %+v",
					again.Dependencies, first.Dependencies)
			}
		}
	}
}

func TestParseManifest_MissingName(t *testing.T) {
	t.Parallel()

	_, err := ParseManifest([]byte(`[tool.poetry.dependencies]` + "\n" + `streamlit = "^1.31"`))
	if !errors.Is(err, ErrManifestInvalid) {
		t.Errorf("expected ErrManifestInvalid, got %v", err)
	}
}

func TestParseManifest_BadTOML(t *testing.T) {
	t.Parallel()

	_, err := ParseManifest([]byte(`[tool.poetry` + "\n" + `name =`))
	if !errors.Is(err, ErrManifestInvalid) {
		t.Errorf("expected ErrManifestInvalid, got %v", err)
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadManifest(filepath.Join(t.TempDir(), "pyproject.toml"))
	if !errors.Is(err, ErrManifestMissing) {
		t.Errorf("expected ErrManifestMissing, got %v", err)
	}
}

func TestLoadManifest_FromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	if err := os.WriteFile(path, []byte(samplePyproject), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error: %v", err)
	}
	if m.Name != "dataviz-app" {
		t.Errorf("Name = %q", m.Name)
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"streamlit", "streamlit"},
		{"Pandas", "pandas"},
		{"typing_extensions", "typing-extensions"},
		{"zope.interface", "zope-interface"},
		{"a--b__c..d", "a-b-c-d"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
