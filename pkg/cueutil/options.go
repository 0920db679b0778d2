// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the maximum accepted input size when the caller
// does not override it. Recipe and config files are small; anything near
// this limit is almost certainly not one of them.
const DefaultMaxFileSize int64 = 1 * 1024 * 1024

type parseOptions struct {
	filename    string
	maxFileSize int64
	concrete    bool
}

func defaultOptions() parseOptions {
	return parseOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// Option configures a ParseAndDecode call.
type Option func(*parseOptions)

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// WithMaxFileSize overrides the maximum accepted input size in bytes.
func WithMaxFileSize(max int64) Option {
	return func(o *parseOptions) {
		o.maxFileSize = max
	}
}

// WithConcrete controls whether validation requires all values to be
// concrete. Defaults to true; schemas with intentional defaults that are
// filled in later can disable it.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) {
		o.concrete = concrete
	}
}
