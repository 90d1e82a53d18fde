package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryStopsOnTerminalFailure(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0

	_, attempts, err := policy.Execute(context.Background(), "p", func(ctx context.Context) (*Result, error) {
		calls++
		return nil, Terminal(errors.New("content blocked"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("terminal failure was retried: %d calls", calls)
	}
	if len(attempts) != 1 || attempts[0].Outcome != OutcomeTerminal {
		t.Fatalf("attempts = %+v, want one terminal attempt", attempts)
	}
}

func TestRetryRetriesTransientFailures(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0

	result, attempts, err := policy.Execute(context.Background(), "p", func(ctx context.Context) (*Result, error) {
		calls++
		if calls < 3 {
			return nil, Transient(errors.New("rate limited"))
		}
		return &Result{Format: "png"}, nil
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result == nil || result.Format != "png" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(attempts))
	}
	if attempts[0].Outcome != OutcomeTransient || attempts[2].Outcome != OutcomeSuccess {
		t.Fatalf("unexpected attempt outcomes: %+v", attempts)
	}
	if attempts[0].Number != 1 || attempts[2].Number != 3 {
		t.Fatalf("attempt numbers not sequential: %+v", attempts)
	}
}

func TestRetryExhaustsTransientFailures(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}
	calls := 0
	wantErr := Transient(errors.New("still overloaded"))

	_, attempts, err := policy.Execute(context.Background(), "p", func(ctx context.Context) (*Result, error) {
		calls++
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Execute error = %v, want last transient error", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if len(attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(attempts))
	}
}

func TestRetryUntaggedErrorIsTerminal(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0

	_, _, err := policy.Execute(context.Background(), "p", func(ctx context.Context) (*Result, error) {
		calls++
		return nil, errors.New("unclassified failure")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("untagged error was retried: %d calls", calls)
	}
}

func TestRetryHonorsCanceledContext(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, attempts, err := policy.Execute(ctx, "p", func(ctx context.Context) (*Result, error) {
		calls++
		cancel()
		return nil, Transient(errors.New("transient"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if len(attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(attempts))
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{name: "tagged transient", err: Transient(errors.New("x")), want: KindTransient},
		{name: "tagged terminal", err: Terminal(errors.New("x")), want: KindTerminal},
		{name: "wrapped transient", err: errors.Join(errors.New("outer"), Transient(errors.New("x"))), want: KindTransient},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: KindTransient},
		{name: "canceled", err: context.Canceled, want: KindTransient},
		{name: "untagged", err: errors.New("x"), want: KindTerminal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf() = %v, want %v", got, tc.want)
			}
		})
	}
}
