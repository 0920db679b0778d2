// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name: "operation only",
			err: &ActionableError{
				Operation: "load bakefile",
			},
			expected: "failed to load bakefile",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "load bakefile",
				Resource:  "./bakefile.cue",
			},
			expected: "failed to load bakefile: ./bakefile.cue",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "parse lockfile",
				Cause:     errors.New("syntax error at line 5"),
			},
			expected: "failed to parse lockfile: syntax error at line 5",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "materialize workspace",
				Resource:  "./app",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to materialize workspace: ./app: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &ActionableError{
		Operation: "pull base image",
		Cause:     cause,
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	err := &ActionableError{
		Operation:   "install dependencies",
		Resource:    "poetry.lock",
		Suggestions: []string{"Regenerate the lockfile", "Run 'bakery validate'"},
		Cause:       errors.New("dependency not pinned"),
	}

	got := err.Format(false)
	if !strings.Contains(got, "failed to install dependencies") {
		t.Errorf("Format() missing operation: %q", got)
	}
	if !strings.Contains(got, "Regenerate the lockfile") {
		t.Errorf("Format() missing suggestion: %q", got)
	}
	if strings.Contains(got, "Error chain") {
		t.Errorf("non-verbose Format() should not include error chain: %q", got)
	}
}

func TestActionableError_FormatVerbose(t *testing.T) {
	inner := errors.New("connection refused")
	err := &ActionableError{
		Operation: "pull base image",
		Cause:     inner,
	}

	got := err.Format(true)
	if !strings.Contains(got, "Error chain:") {
		t.Errorf("verbose Format() should include error chain: %q", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("verbose Format() should include cause message: %q", got)
	}
}

func TestErrorContext_Build(t *testing.T) {
	cause := errors.New("boom")
	err := NewErrorContext().
		WithOperation("resolve base image").
		WithResource("python:3.11-slim").
		WithSuggestion("Check the version tag").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil")
	}
	if err.Operation != "resolve base image" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if err.Resource != "python:3.11-slim" {
		t.Errorf("Resource = %q", err.Resource)
	}
	if !err.HasSuggestions() {
		t.Error("expected suggestions")
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be wrapped")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	if got := NewErrorContext().Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestWrapWithOperation_NilError(t *testing.T) {
	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
	if got := WrapWithContext(nil, "anything", "res"); got != nil {
		t.Errorf("WrapWithContext(nil) = %v, want nil", got)
	}
}
