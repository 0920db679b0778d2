// SPDX-License-Identifier: MPL-2.0

// Package launch supervises the application container at run time.
//
// The lifecycle is a one-way state machine:
//
//	Defined -> Started -> Running -> Exited
//	                   \          \-> Crashed
//	                    \-> Crashed
//
// Exited and Crashed are terminal. There is no retry: restart policy
// belongs to whatever orchestrates the container, not to the launcher.
package launch

import "fmt"

const (
	// StateDefined indicates the supervisor has been created but not started.
	StateDefined State = iota
	// StateStarted indicates the container process has been handed to the engine.
	StateStarted
	// StateRunning indicates the application answered the readiness probe.
	StateRunning
	// StateExited indicates the process finished with exit code 0 (terminal state).
	StateExited
	// StateCrashed indicates the process failed: non-zero exit, startup
	// timeout, or an engine error (terminal state).
	StateCrashed
)

// State represents the lifecycle state of a launched application.
type State int32

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case StateDefined:
		return "defined"
	case StateStarted:
		return "started"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateCrashed:
		return "crashed"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateExited || s == StateCrashed
}
