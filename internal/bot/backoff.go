package bot

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/onevibe0405/Ferry/internal/logging"
)

// newBackoff doubles from base up to max with ±25% jitter.
func newBackoff(base, max time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.MaxInterval = max
	b.Multiplier = 2
	b.RandomizationFactor = 0.25
	b.Reset()
	return b
}

// retryConnect calls open until it succeeds, a non-transient error occurs,
// attempts run out or ctx is done. The last error from open is returned.
func retryConnect(ctx context.Context, attempts int, b backoff.BackOff, open func() error) error {
	var last error
	attempt := 0
	operation := func() (struct{}, error) {
		attempt++
		last = open()
		switch {
		case last == nil:
			return struct{}{}, nil
		case !IsTransient(last):
			return struct{}{}, backoff.Permanent(last)
		}
		if hint, ok := RetryAfter(last); ok {
			return struct{}{}, backoff.RetryAfter(int(math.Ceil(hint.Seconds())))
		}
		return struct{}{}, last
	}
	notify := func(_ error, delay time.Duration) {
		logging.Warn("connect attempt %d/%d failed: %v (retrying in %v)", attempt, attempts, last, delay)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(max(attempts, 1))),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return last
}
