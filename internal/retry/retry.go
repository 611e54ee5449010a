// Package retry provides a reusable retry policy with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAttemptsExhausted indicates that every attempt permitted by the policy
// failed. It always wraps the last underlying error.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// SleepFunc suspends the calling request for d, honoring ctx cancellation.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy describes how an operation is retried: how many total attempts, the
// backoff timing, and which errors are worth retrying. The zero Retryable
// treats every error as fatal, so Do degrades to a single attempt.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
	Retryable   func(error) bool
	Sleep       SleepFunc
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. The delay before attempt n+1 is
// BaseDelay*2^n + Jitter*n.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := range p.MaxAttempts {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}

		if attempt == p.MaxAttempts-1 {
			break
		}

		sleepErr := p.sleep(ctx, p.Delay(attempt))
		if sleepErr != nil {
			return sleepErr
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, p.MaxAttempts, lastErr)
}

// Delay returns the backoff delay applied after the given zero-based attempt.
func (p Policy) Delay(attempt int) time.Duration {
	return p.BaseDelay*(1<<attempt) + p.Jitter*time.Duration(attempt)
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
