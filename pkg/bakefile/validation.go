// SPDX-License-Identifier: MPL-2.0

package bakefile

import (
	"fmt"
	"strings"
)

type (
	// ValidationError represents a single issue found during recipe validation.
	ValidationError struct {
		// Field is the field path where the error occurred (e.g., "launch.port").
		Field string
		// Message is the human-readable error message.
		Message string
	}

	// ValidationErrors is a collection of validation errors that implements
	// the error interface. This allows returning every issue from a single
	// validation pass instead of stopping at the first one.
	ValidationErrors []ValidationError
)

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error implements the error interface by joining all error messages.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d errors:\n", len(errs))
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}
