package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// withRetry runs op with exponential backoff, up to maxRetries retries.
// Fatal API errors abort immediately; context cancellation stops the loop.
func withRetry(ctx context.Context, maxRetries int, opName string, op func() error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if wrapped := wrapFatalError(err); isFatalAPIError(err) {
			return backoff.Permanent(wrapped)
		}
		slog.Debug("retryable failure", "op", opName, "attempt", attempt, "error", err)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx))
}
