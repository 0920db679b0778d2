// SPDX-License-Identifier: MPL-2.0

// Package bakefile defines the recipe format for bakery builds.
//
// A bakefile (bakefile.cue) describes everything the build pipeline needs:
// the base runtime image, the workspace layout (source tree, manifest,
// lockfile), the dependency installer configuration, the declared network
// port, and the launch command. Files are validated against an embedded CUE
// schema at parse time, then cross-checked by Go-side struct validation
// (the schema catches shape errors, the Go pass catches cross-field
// invariants such as the launch/expose port agreement).
package bakefile
