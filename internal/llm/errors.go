package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrTransport covers connectivity, timeout and upstream service failures.
// Transport errors are retryable with bounded backoff.
var ErrTransport = errors.New("transport failure")

// ErrRateLimited marks upstream throttling. It is a retryable transport
// failure: errors.Is(err, ErrTransport) holds for it too.
var ErrRateLimited = fmt.Errorf("%w: rate limited", ErrTransport)

// IsRetryable reports whether an invocation error may be retried.
// Schema violations and client-side errors are not.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrTransport)
}

// Classify wraps a provider error with the matching taxonomy sentinel so
// callers can decide on retries with errors.Is instead of string matching.
// Unrecognized errors pass through unchanged and are treated as permanent.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()

	// Throttling
	if strings.Contains(msg, "ThrottlingException") ||
		strings.Contains(msg, "TooManyRequestsException") ||
		strings.Contains(msg, "Rate exceeded") ||
		strings.Contains(msg, "429") {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	// Service errors (5xx)
	if strings.Contains(msg, "InternalServerException") ||
		strings.Contains(msg, "ServiceUnavailableException") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	// Network errors
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "timeout") {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	// Client errors (4xx, validation) are permanent
	return err
}
