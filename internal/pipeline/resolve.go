// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"time"

	"bakery-cli/internal/container"
)

const (
	pullMaxAttempts = 3
	pullBaseBackoff = 2 * time.Second
)

// resolveStage ensures the base image named by the recipe is present
// locally: a local check first, then a registry pull with backoff. The
// stage is idempotent; re-running it with the image present does nothing.
type resolveStage struct{}

func (s *resolveStage) Name() StageName        { return StageResolve }
func (s *resolveStage) DependsOn() []StageName { return nil }

func (s *resolveStage) Check(_ context.Context, b *Build) error {
	ref := b.imageReference()
	if err := ref.Validate(); err != nil {
		return &ResolutionError{Reference: ref.String(), Err: err}
	}
	return nil
}

func (s *resolveStage) Run(ctx context.Context, b *Build) error {
	ref := b.imageReference()
	b.Dockerfile.BaseImage = ref.String()

	if b.DryRun {
		return nil
	}

	exists, err := b.Engine.ImageExists(ctx, ref)
	if err == nil && exists {
		b.Logger.Debug("base image present locally", "image", ref)
		return nil
	}

	b.Logger.Info("pulling base image", "image", ref)
	err = container.RetryWithBackoff(ctx, pullMaxAttempts, pullBaseBackoff,
		func(attempt int) (bool, error) {
			// Attempts are zero-based; every attempt after the first is a retry.
			if attempt > 0 {
				b.Logger.Warn("retrying base image pull", "image", ref, "attempt", attempt+1)
			}
			if pullErr := b.Engine.Pull(ctx, ref); pullErr != nil {
				return true, pullErr
			}
			return false, nil
		})
	if err != nil {
		return &ResolutionError{Reference: ref.String(), Err: err}
	}
	return nil
}
