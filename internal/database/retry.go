package database

import (
	"context"
	"time"
)

// RetryBackoff is multiplied by the attempt number between retries.
var RetryBackoff = 150 * time.Millisecond

// WithRetry runs fn up to attempts times while it fails with a transient
// error. Any other error is returned immediately.
func WithRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !IsTransient(err) || attempt == attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryBackoff * time.Duration(attempt)):
		}
	}
	return err
}
