package ai

import (
	"context"
	"time"
)

const (
	maxRetries   = 3
	retryDelay   = 1 * time.Second
	retryBackoff = 2
)

// withRetry runs op, retrying transient failures with exponential backoff.
// Non-transient errors and context cancellation stop immediately.
func withRetry(ctx context.Context, op func() error) error {
	var lastErr error
	delay := retryDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) || attempt == maxRetries {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= retryBackoff
	}

	return lastErr
}
