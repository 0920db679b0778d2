// SPDX-License-Identifier: MPL-2.0

package launch

import "testing"

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateDefined, "defined"},
		{StateStarted, "started"},
		{StateRunning, "running"},
		{StateExited, "exited"},
		{StateCrashed, "crashed"},
		{State(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestStateTerminal(t *testing.T) {
	t.Parallel()

	for _, s := range []State{StateDefined, StateStarted, StateRunning} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []State{StateExited, StateCrashed} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
