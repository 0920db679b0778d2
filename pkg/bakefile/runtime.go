// SPDX-License-Identifier: MPL-2.0

package bakefile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidRuntimeName is the sentinel error wrapped by InvalidRuntimeNameError.
	ErrInvalidRuntimeName = errors.New("invalid runtime name")
	// ErrInvalidRuntimeTag is the sentinel error wrapped by InvalidRuntimeTagError.
	ErrInvalidRuntimeTag = errors.New("invalid runtime tag")
	// ErrInvalidRuntimeDigest is the sentinel error wrapped by InvalidRuntimeDigestError.
	ErrInvalidRuntimeDigest = errors.New("invalid runtime digest")
)

var digestPattern = regexp.MustCompile(`^sha256:[a-f0-9]{64}$`)

type (
	// RuntimeName is an image repository name (e.g. "python", "docker.io/library/python").
	RuntimeName string

	// RuntimeTag is an image tag (e.g. "3.11-slim").
	RuntimeTag string

	// RuntimeDigest is an optional content-addressed image pin in
	// "sha256:<64 hex>" form. The zero value ("") means "no pin".
	RuntimeDigest string

	// InvalidRuntimeNameError is returned when a RuntimeName is empty,
	// whitespace-only, or contains whitespace.
	InvalidRuntimeNameError struct {
		Value  RuntimeName
		Reason string
	}

	// InvalidRuntimeTagError is returned when a RuntimeTag is empty or
	// contains whitespace.
	InvalidRuntimeTagError struct {
		Value  RuntimeTag
		Reason string
	}

	// InvalidRuntimeDigestError is returned when a non-empty RuntimeDigest
	// is not in "sha256:<64 hex>" form.
	InvalidRuntimeDigestError struct {
		Value RuntimeDigest
	}

	// RuntimeSpec identifies the base image the build starts from.
	RuntimeSpec struct {
		Name   RuntimeName   `json:"name"`
		Tag    RuntimeTag    `json:"tag"`
		Digest RuntimeDigest `json:"digest,omitempty"`
	}
)

// String returns the string representation of the RuntimeName.
func (n RuntimeName) String() string { return string(n) }

// Validate returns nil if the RuntimeName is valid, or a validation error if not.
func (n RuntimeName) Validate() error {
	s := string(n)
	if strings.TrimSpace(s) == "" {
		return &InvalidRuntimeNameError{Value: n, Reason: "must not be empty"}
	}
	if strings.ContainsAny(s, " \t\n") {
		return &InvalidRuntimeNameError{Value: n, Reason: "must not contain whitespace"}
	}
	return nil
}

// String returns the string representation of the RuntimeTag.
func (t RuntimeTag) String() string { return string(t) }

// Validate returns nil if the RuntimeTag is valid, or a validation error if not.
func (t RuntimeTag) Validate() error {
	s := string(t)
	if strings.TrimSpace(s) == "" {
		return &InvalidRuntimeTagError{Value: t, Reason: "must not be empty"}
	}
	if strings.ContainsAny(s, " \t\n") {
		return &InvalidRuntimeTagError{Value: t, Reason: "must not contain whitespace"}
	}
	return nil
}

// String returns the string representation of the RuntimeDigest.
func (d RuntimeDigest) String() string { return string(d) }

// Validate returns nil if the RuntimeDigest is valid, or a validation error if not.
// The zero value ("") is valid and means "no digest pin".
func (d RuntimeDigest) Validate() error {
	if d == "" {
		return nil
	}
	if !digestPattern.MatchString(string(d)) {
		return &InvalidRuntimeDigestError{Value: d}
	}
	return nil
}

// Error implements the error interface for InvalidRuntimeNameError.
func (e *InvalidRuntimeNameError) Error() string {
	return fmt.Sprintf("invalid runtime name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidRuntimeName for errors.Is() compatibility.
func (e *InvalidRuntimeNameError) Unwrap() error { return ErrInvalidRuntimeName }

// Error implements the error interface for InvalidRuntimeTagError.
func (e *InvalidRuntimeTagError) Error() string {
	return fmt.Sprintf("invalid runtime tag %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidRuntimeTag for errors.Is() compatibility.
func (e *InvalidRuntimeTagError) Unwrap() error { return ErrInvalidRuntimeTag }

// Error implements the error interface for InvalidRuntimeDigestError.
func (e *InvalidRuntimeDigestError) Error() string {
	return fmt.Sprintf("invalid runtime digest %q (must be sha256:<64 hex chars>)", e.Value)
}

// Unwrap returns ErrInvalidRuntimeDigest for errors.Is() compatibility.
func (e *InvalidRuntimeDigestError) Unwrap() error { return ErrInvalidRuntimeDigest }

// Reference returns the image reference used for pulling. A digest pin takes
// precedence over the tag.
func (r RuntimeSpec) Reference() string {
	if r.Digest != "" {
		return fmt.Sprintf("%s@%s", r.Name, r.Digest)
	}
	return fmt.Sprintf("%s:%s", r.Name, r.Tag)
}
