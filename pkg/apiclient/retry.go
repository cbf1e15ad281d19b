package apiclient

import (
	"context"
	"errors"
	"time"
)

// RetryOnConflict runs fn up to attempts times, waiting delay between
// tries, as long as the failure is ErrConflict. Any other error, or a
// canceled context, stops the loop immediately. Useful for optimistic
// schema mutations where a concurrent editor bumped the version.
func RetryOnConflict(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrConflict) {
			return err
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
