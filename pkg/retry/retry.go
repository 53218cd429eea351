// Package retry runs an operation repeatedly under a bounded attempt
// budget, sleeping between attempts according to a backoff curve.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Default policy values. DefaultMaxAttempts is one initial try plus four
// retries.
const (
	DefaultMaxAttempts     = 5
	DefaultInitialInterval = time.Second
	DefaultMaxInterval     = 16 * time.Second
)

// ErrExhausted is returned (wrapped) when every attempt failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Operation is one attempt. attempt starts at 1.
type Operation func(ctx context.Context, attempt int) error

// Policy bounds how often and how far apart an Operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int

	// NewBackOff returns a fresh backoff curve for one Do call.
	// nil means DefaultBackOff.
	NewBackOff func() backoff.BackOff

	// OnRetry, if set, is called after a failed attempt that will be retried
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy returns the policy used for email verification polling.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		NewBackOff:  DefaultBackOff,
	}
}

// DefaultBackOff is an exponential curve starting at one second and
// doubling up to DefaultMaxInterval.
func DefaultBackOff() backoff.BackOff {
	return ExponentialBackOff(DefaultInitialInterval, DefaultMaxInterval)
}

// ExponentialBackOff returns a doubling curve from initial up to
// maxInterval with light jitter.
func ExponentialBackOff(initial, maxInterval time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = maxInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0.1
	b.Reset()
	return b
}

// Permanent marks err as not worth retrying. Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do calls op until it succeeds, returns a Permanent error, the context is
// done, or MaxAttempts is reached. On exhaustion the returned error wraps
// both ErrExhausted and the last attempt's error.
func Do(ctx context.Context, p Policy, op Operation) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	newBackOff := p.NewBackOff
	if newBackOff == nil {
		newBackOff = DefaultBackOff
	}
	b := newBackOff()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return nil
		}

		var perm *backoff.PermanentError
		if errors.As(lastErr, &perm) {
			return perm.Unwrap()
		}

		if attempt == attempts {
			break
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
