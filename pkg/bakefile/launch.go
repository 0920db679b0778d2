// SPDX-License-Identifier: MPL-2.0

package bakefile

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrInvalidPort is the sentinel error wrapped by InvalidPortError.
	ErrInvalidPort = errors.New("invalid port")
	// ErrInvalidBindAddress is the sentinel error wrapped by InvalidBindAddressError.
	ErrInvalidBindAddress = errors.New("invalid bind address")
	// ErrInvalidLaunchCommand is the sentinel error wrapped by InvalidLaunchCommandError.
	ErrInvalidLaunchCommand = errors.New("invalid launch command")
)

type (
	// Port is a TCP port in the valid range 1-65535. The zero value is invalid.
	Port uint16

	// BindAddress is the address the application binds inside the container.
	// It must be a literal IP address; the default is the wildcard "0.0.0.0"
	// so the process is reachable through the container's port mapping.
	BindAddress string

	// InvalidPortError is returned when a Port is zero.
	InvalidPortError struct {
		Value Port
	}

	// InvalidBindAddressError is returned when a BindAddress is not a
	// literal IP address.
	InvalidBindAddressError struct {
		Value BindAddress
	}

	// InvalidLaunchCommandError is returned when a launch command is empty
	// or its executable is blank.
	InvalidLaunchCommandError struct {
		Reason string
	}

	// ExposeSpec declares the application's network surface. It is purely
	// declarative: no socket is opened at build time.
	ExposeSpec struct {
		Port Port `json:"port"`
	}

	// LaunchSpec describes how the application process is started inside
	// the container.
	LaunchSpec struct {
		Command []string    `json:"command"`
		Address BindAddress `json:"address"`
		Port    Port        `json:"port"`
	}
)

// DefaultBindAddress is the wildcard address applied when a recipe omits
// launch.address.
const DefaultBindAddress BindAddress = "0.0.0.0"

// String returns the decimal string representation of the Port.
func (p Port) String() string { return fmt.Sprintf("%d", uint16(p)) }

// Validate returns nil if the Port is valid, or a validation error if not.
// The uint16 representation already caps the range at 65535, so only the
// zero value can be invalid.
func (p Port) Validate() error {
	if p == 0 {
		return &InvalidPortError{Value: p}
	}
	return nil
}

// String returns the string representation of the BindAddress.
func (a BindAddress) String() string { return string(a) }

// Validate returns nil if the BindAddress is valid, or a validation error if not.
func (a BindAddress) Validate() error {
	if net.ParseIP(string(a)) == nil {
		return &InvalidBindAddressError{Value: a}
	}
	return nil
}

// Error implements the error interface for InvalidPortError.
func (e *InvalidPortError) Error() string {
	return fmt.Sprintf("invalid port %d (must be 1-65535)", e.Value)
}

// Unwrap returns ErrInvalidPort for errors.Is() compatibility.
func (e *InvalidPortError) Unwrap() error { return ErrInvalidPort }

// Error implements the error interface for InvalidBindAddressError.
func (e *InvalidBindAddressError) Error() string {
	return fmt.Sprintf("invalid bind address %q (must be a literal IP address)", e.Value)
}

// Unwrap returns ErrInvalidBindAddress for errors.Is() compatibility.
func (e *InvalidBindAddressError) Unwrap() error { return ErrInvalidBindAddress }

// Error implements the error interface for InvalidLaunchCommandError.
func (e *InvalidLaunchCommandError) Error() string {
	return fmt.Sprintf("invalid launch command: %s", e.Reason)
}

// Unwrap returns ErrInvalidLaunchCommand for errors.Is() compatibility.
func (e *InvalidLaunchCommandError) Unwrap() error { return ErrInvalidLaunchCommand }

// ValidateCommand checks the launch command for shape errors: it must have
// at least an executable, and no element may be blank.
func (l LaunchSpec) ValidateCommand() error {
	if len(l.Command) == 0 {
		return &InvalidLaunchCommandError{Reason: "command must not be empty"}
	}
	for i, arg := range l.Command {
		if strings.TrimSpace(arg) == "" {
			return &InvalidLaunchCommandError{Reason: fmt.Sprintf("command[%d] must not be blank", i)}
		}
	}
	return nil
}
