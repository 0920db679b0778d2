// SPDX-License-Identifier: MPL-2.0

// Package container provides an abstraction layer for container engines
// (Docker/Podman). The build pipeline drives it to pull base images, build
// image layers from a generated Dockerfile, and start the packaged
// application with its declared port published.
package container
