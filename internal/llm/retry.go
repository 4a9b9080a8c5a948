package llm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds the retry loop applied to transient transport errors.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryPolicy matches the upstream SDK defaults we used before
// pulling the loop out of the provider clients.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     12 * time.Second,
}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// attempt budget is exhausted. Only transport-class errors are retried.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return zero, err
		}

		delay := backoff(attempt, policy.InitialDelay, policy.MaxDelay)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, fmt.Errorf("max retries %d exceeded: %w", attempts, lastErr)
}

func backoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	d := float64(initialDelay) * math.Pow(2, float64(attempt))
	if d > float64(maxDelay) {
		d = float64(maxDelay)
	}

	jitter := d * 0.2 * (2*rand.Float64() - 1) // -20% to +20%
	d += jitter

	return time.Duration(d)
}
