package pipeline

import (
	"context"
	"time"
)

// RetryPolicy bounds the attempts against a single provider. Backoff is
// exponential from BaseDelay: attempt n waits BaseDelay * 2^(n-1).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy matches the configured defaults: two attempts, half a
// second base delay.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2, BaseDelay: 500 * time.Millisecond}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	return p
}

// Execute runs fn up to MaxAttempts times, retrying only transient failures
// and backing off between attempts. A terminal failure stops immediately.
// The returned attempts record every call made, successful or not.
func (p RetryPolicy) Execute(ctx context.Context, provider string, fn func(ctx context.Context) (*Result, error)) (*Result, []Attempt, error) {
	p = p.normalized()
	attempts := make([]Attempt, 0, p.MaxAttempts)
	var lastErr error

	for n := 1; n <= p.MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}

		start := time.Now()
		result, err := fn(ctx)
		latency := time.Since(start)

		if err == nil {
			attempts = append(attempts, Attempt{Provider: provider, Number: n, Outcome: OutcomeSuccess, Latency: latency})
			return result, attempts, nil
		}

		lastErr = err
		kind := KindOf(err)
		outcome := OutcomeTerminal
		if kind == KindTransient {
			outcome = OutcomeTransient
		}
		attempts = append(attempts, Attempt{Provider: provider, Number: n, Outcome: outcome, Latency: latency, Err: err})

		if kind == KindTerminal {
			return nil, attempts, err
		}
		if n == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.BaseDelay<<(n-1)); err != nil {
			return nil, attempts, err
		}
	}

	return nil, attempts, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
