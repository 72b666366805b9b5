package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// backoffPolicy retries an operation with exponential backoff. Only failures
// the operation itself reports as retryable (rate limits, server-side 5xx)
// are retried; everything else propagates immediately.
type backoffPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

func defaultBackoff() backoffPolicy {
	return backoffPolicy{maxAttempts: 3, baseDelay: 500 * time.Millisecond}
}

// do runs fn up to maxAttempts times. The delay doubles after each retryable
// failure. Context cancellation aborts the wait.
func (p backoffPolicy) do(ctx context.Context, log zerolog.Logger, fn func() (retryable bool, err error)) error {
	delay := p.baseDelay
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		retryable, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt == p.maxAttempts {
			return err
		}

		log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("transient model failure, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return lastErr
}
