// SPDX-License-Identifier: MPL-2.0

package bakefile

import (
	"errors"
	"testing"
)

func TestWorkspacePathValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   WorkspacePath
		wantErr bool
	}{
		{name: "current dir", value: ".", wantErr: false},
		{name: "simple relative path", value: "pyproject.toml", wantErr: false},
		{name: "nested relative path", value: "app/src", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "whitespace-only", value: "  ", wantErr: true},
		{name: "absolute path", value: "/etc/passwd", wantErr: true},
		{name: "parent traversal", value: "../outside", wantErr: true},
		{name: "disguised parent traversal", value: "app/../../outside", wantErr: true},
		{name: "internal dotdot that stays inside", value: "app/../pyproject.toml", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidWorkspacePath) {
				t.Errorf("Validate(%q) should wrap ErrInvalidWorkspacePath, got %v", tt.value, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.value, err)
			}
		})
	}
}
