// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates bakery's own configuration (as
// opposed to the per-project recipe, which pkg/bakefile owns).
//
// Configuration lives in a CUE file validated against an embedded schema,
// merged into Viper on top of defaults. Lookup order: an explicit path,
// then the platform config directory, then the current directory.
package config
