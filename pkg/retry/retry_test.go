package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts: attempts,
		NewBackOff:  func() backoff.BackOff { return &backoff.ZeroBackOff{} },
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), zeroPolicy(3), func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	var seen []int
	err := Do(context.Background(), zeroPolicy(5), func(ctx context.Context, attempt int) error {
		seen = append(seen, attempt)
		if attempt < 4 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
}

func TestDoExhausts(t *testing.T) {
	last := errors.New("still nothing")
	calls := 0
	err := Do(context.Background(), zeroPolicy(5), func(ctx context.Context, attempt int) error {
		calls++
		return last
	})
	require.Error(t, err)
	assert.Equal(t, 5, calls)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, last)
	assert.Contains(t, err.Error(), "after 5 attempts")
}

func TestDoPermanentStopsImmediately(t *testing.T) {
	cause := errors.New("bad credentials")
	calls := 0
	err := Do(context.Background(), zeroPolicy(5), func(ctx context.Context, attempt int) error {
		calls++
		return Permanent(cause)
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, cause, err)
	assert.NotErrorIs(t, err, ErrExhausted)
}

func TestDoOnRetryReportsWaits(t *testing.T) {
	var waits []time.Duration
	p := Policy{
		MaxAttempts: 3,
		NewBackOff:  func() backoff.BackOff { return &backoff.ConstantBackOff{Interval: time.Millisecond} },
		OnRetry: func(attempt int, err error, wait time.Duration) {
			waits = append(waits, wait)
		},
	}
	_ = Do(context.Background(), p, func(ctx context.Context, attempt int) error {
		return errors.New("fail")
	})
	// no wait is scheduled after the final attempt
	assert.Equal(t, []time.Duration{time.Millisecond, time.Millisecond}, waits)
}

func TestDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		MaxAttempts: 5,
		NewBackOff:  func() backoff.BackOff { return &backoff.ConstantBackOff{Interval: time.Hour} },
	}
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Do(ctx, p, func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExponentialBackOffGrows(t *testing.T) {
	b := ExponentialBackOff(100*time.Millisecond, time.Second)
	first := b.NextBackOff()
	second := b.NextBackOff()
	third := b.NextBackOff()

	assert.InDelta(t, float64(100*time.Millisecond), float64(first), float64(10*time.Millisecond))
	assert.Greater(t, second, first)
	assert.Greater(t, third, second)
}

func TestZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), zeroPolicy(0), func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("fail")
	})
	assert.Equal(t, 1, calls)
}
