// SPDX-License-Identifier: MPL-2.0

// Package pipeline implements the build pipeline that turns a recipe into a
// runnable container image.
//
// The pipeline is five stages wired into a dependency graph (see
// internal/dag): resolve (ensure the base image is present), materialize
// (populate an isolated build context), install (lockfile-driven dependency
// replay), declare (network surface metadata), and launch-spec (the image
// start command). Execution is two-phase: every stage's host-side Check runs
// first, in graph order, before any stage touches the container engine or
// the filesystem. A lockfile that fails the coverage check therefore aborts
// the build before a single byte is fetched.
//
// Each stage contributes its layers to a single Dockerfile plan; the plan
// renders to deterministic bytes, so identical recipe + manifest + lockfile
// inputs produce an identical image definition and an identical cache key
// on any host.
package pipeline
