package scanner

import (
	"context"
	"errors"
	"time"
)

// DefaultBackoff is the wait before each of the three attempts.
var DefaultBackoff = []time.Duration{0, 10 * time.Second, 30 * time.Second}

// RetryPolicy is a bounded retry loop. Backoff[i] is slept before attempt i,
// so len(Backoff) is the maximum number of attempts.
type RetryPolicy struct {
	Backoff   []time.Duration
	Retryable func(error) bool
}

// NoRetry runs the operation exactly once.
var NoRetry = RetryPolicy{Backoff: []time.Duration{0}}

// Attempts returns the maximum number of attempts.
func (p RetryPolicy) Attempts() int {
	if len(p.Backoff) == 0 {
		return 1
	}
	return len(p.Backoff)
}

// Do runs fn until it succeeds, returns a non-retryable error, or the attempts
// run out. The last error is returned. Sleeps end early when ctx is done.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt < p.Attempts(); attempt++ {
		if attempt < len(p.Backoff) && p.Backoff[attempt] > 0 {
			if sleepErr := sleep(ctx, p.Backoff[attempt]); sleepErr != nil {
				return errors.Join(err, sleepErr)
			}
		}

		err = fn(attempt)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
