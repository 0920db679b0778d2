// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"time"
)

// RetryWithBackoff runs op up to maxAttempts times, doubling the pause
// between attempts starting from baseBackoff. The pipeline uses it for
// registry pulls, where transient network failures are common and a short
// wait usually clears them.
//
// op receives the zero-based attempt number and reports whether its error
// is transient. A false retry return makes the error final and stops the
// loop; a nil error returns immediately. Cancellation is checked before
// every sleep so an abandoned build does not keep waiting on the registry.
// When all attempts fail, the last error is returned.
func RetryWithBackoff(
	ctx context.Context,
	maxAttempts int,
	baseBackoff time.Duration,
	op func(attempt int) (retry bool, err error),
) error {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("retry aborted: %w", err)
			}
			time.Sleep(baseBackoff * time.Duration(1<<(attempt-1)))
		}

		retry, err := op(attempt)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return lastErr
}
