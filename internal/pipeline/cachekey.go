// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"bakery-cli/internal/container"
)

// DefaultImageRepo is the repository used for image tags derived from cache keys.
const DefaultImageRepo = "bakery-app"

// shortKeyLen is how much of the cache key ends up in the image tag.
const shortKeyLen = 12

// CacheKey derives the build cache key from the inputs that determine the
// installed dependency set: the base image reference, the manifest bytes,
// and the lockfile bytes. Each field is length-prefixed so distinct input
// triples can never collide by concatenation.
//
// The key is host-independent: no paths, timestamps, or local state enter
// the hash.
func CacheKey(reference string, manifest, lockfile []byte) string {
	h := sha256.New()

	write := func(label string, data []byte) {
		fmt.Fprintf(h, "%s:%d:", label, len(data))
		h.Write(data)
	}

	write("runtime", []byte(reference))
	write("manifest", manifest)
	write("lockfile", lockfile)

	return hex.EncodeToString(h.Sum(nil))
}

// DefaultImageTag returns the image tag for a cache key:
// "bakery-app:<first 12 hex chars>".
func DefaultImageTag(cacheKey string) container.ImageTag {
	short := cacheKey
	if len(short) > shortKeyLen {
		short = short[:shortKeyLen]
	}
	return container.ImageTag(fmt.Sprintf("%s:%s", DefaultImageRepo, short))
}
