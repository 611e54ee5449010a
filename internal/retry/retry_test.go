package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/ad-voice-service/internal/retry"
)

var (
	errTransient = errors.New("transient")
	errFatal     = errors.New("fatal")
)

// fakeSleeper records requested delays without sleeping.
type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)

	return nil
}

func transientPolicy(sleep retry.SleepFunc) retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Jitter:      100 * time.Millisecond,
		Retryable:   func(err error) bool { return errors.Is(err, errTransient) },
		Sleep:       sleep,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{delays: nil}
	calls := 0

	err := transientPolicy(sleeper.sleep).Do(context.Background(), func(_ context.Context) error {
		calls++

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{delays: nil}
	calls := 0

	err := transientPolicy(sleeper.sleep).Do(context.Background(), func(_ context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2*time.Second + 100*time.Millisecond,
	}, sleeper.delays)
}

func TestDoExhaustsBudget(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{delays: nil}
	calls := 0

	err := transientPolicy(sleeper.sleep).Do(context.Background(), func(_ context.Context) error {
		calls++

		return errTransient
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
	assert.ErrorIs(t, err, errTransient, "exhaustion must carry the last underlying error")
}

func TestDoFatalErrorBypassesRetry(t *testing.T) {
	t.Parallel()

	sleeper := &fakeSleeper{delays: nil}
	calls := 0

	err := transientPolicy(sleeper.sleep).Do(context.Background(), func(_ context.Context) error {
		calls++

		return errFatal
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, errFatal)
	assert.NotErrorIs(t, err, retry.ErrAttemptsExhausted)
	assert.Empty(t, sleeper.delays)
}

func TestDelaySchedule(t *testing.T) {
	t.Parallel()

	policy := transientPolicy(nil)

	assert.Equal(t, 1*time.Second, policy.Delay(0))
	assert.Equal(t, 2*time.Second+100*time.Millisecond, policy.Delay(1))
	assert.Equal(t, 4*time.Second+200*time.Millisecond, policy.Delay(2))
}

func TestSleepHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := retry.Policy{
		MaxAttempts: 2,
		BaseDelay:   time.Hour,
		Jitter:      0,
		Retryable:   func(error) bool { return true },
		Sleep:       nil,
	}

	err := policy.Do(ctx, func(_ context.Context) error { return errTransient })

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
