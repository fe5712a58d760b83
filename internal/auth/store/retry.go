package store

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryDelay is the pause before the single retry of a transient failure.
var RetryDelay = 100 * time.Millisecond

// Retry runs op and retries it once when it fails with ErrUnavailable.
// Any other error is returned immediately.
func Retry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !errors.Is(err, ErrUnavailable) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(RetryDelay)),
		backoff.WithMaxTries(2),
	)
}
