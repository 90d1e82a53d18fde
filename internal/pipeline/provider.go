// Package pipeline drives a generation brief through the ordered chain of
// image providers with bounded retries, and exposes the orchestrator that
// composes admission, quota, classification, and brief direction into one
// request lifecycle.
package pipeline

import (
	"context"
	"errors"
	"time"

	"flyergen/internal/domain"
	"flyergen/internal/domain/stylecfg"
)

// Request is the uniform input every provider receives.
type Request struct {
	RequestID string
	Brief     domain.GenerationBrief
	Profile   domain.BusinessProfile
	Style     stylecfg.Style
}

// Result is the output of a successful provider call. It is owned by the
// orchestrator until handed to the artifact store.
type Result struct {
	Provider string
	Data     []byte
	Format   string
	Width    int
	Height   int
}

// Provider turns a brief into image bytes. Implementations classify their
// errors with Transient or Terminal so the chain can drive retry decisions
// without provider-specific branching.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Result, error)
}

// FailureKind separates errors that are worth retrying on the same provider
// from those that are not.
type FailureKind int

const (
	// KindTerminal failures will not succeed on retry with the same
	// provider: auth failures, content rejections, malformed requests.
	KindTerminal FailureKind = iota
	// KindTransient failures are expected to clear on retry: timeouts,
	// rate limits, 5xx responses, async jobs still pending.
	KindTransient
)

type classifiedError struct {
	kind FailureKind
	err  error
}

func (e *classifiedError) Error() string { return e.err.Error() }
func (e *classifiedError) Unwrap() error { return e.err }

// Transient tags an error as retryable for the current provider.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{kind: KindTransient, err: err}
}

// Terminal tags an error as not retryable for the current provider.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{kind: KindTerminal, err: err}
}

// KindOf classifies an error. Deadline and cancellation errors count as
// transient (the next attempt or provider may still fit in the budget);
// anything untagged is treated as terminal so unknown failures advance the
// chain instead of burning retries.
func KindOf(err error) FailureKind {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	return KindTerminal
}

// AttemptOutcome labels a single provider call.
type AttemptOutcome string

const (
	OutcomeSuccess   AttemptOutcome = "success"
	OutcomeTransient AttemptOutcome = "transient-failure"
	OutcomeTerminal  AttemptOutcome = "terminal-failure"
)

// Attempt is the ephemeral per-call record used for retry decisions and
// observability. It is not persisted beyond the request lifetime except as
// a usage event.
type Attempt struct {
	Provider string
	Number   int
	Outcome  AttemptOutcome
	Latency  time.Duration
	Err      error
}
