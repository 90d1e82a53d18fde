package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"flyergen/internal/domain"
)

// Chain walks a fixed priority list of providers until one succeeds. The
// deterministic renderer sits last as the guaranteed backstop, so total
// exhaustion is only reachable when the profile itself is invalid.
type Chain struct {
	providers      []Provider
	retry          RetryPolicy
	attemptTimeout time.Duration
	logger         zerolog.Logger
}

func NewChain(providers []Provider, retry RetryPolicy, attemptTimeout time.Duration, logger zerolog.Logger) *Chain {
	return &Chain{
		providers:      providers,
		retry:          retry,
		attemptTimeout: attemptTimeout,
		logger:         logger,
	}
}

// Run tries each provider in order, wrapping every call in the retry policy
// and a per-attempt timeout so one slow provider cannot starve the fallback.
// Transient and terminal provider errors never escape: the caller only sees
// a result or the chain's exhaustion error.
func (c *Chain) Run(ctx context.Context, req Request) (*Result, []Attempt, error) {
	var all []Attempt

	for _, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, all, err
		}

		name := provider.Name()
		result, attempts, err := c.retry.Execute(ctx, name, func(ctx context.Context) (*Result, error) {
			if c.attemptTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
				defer cancel()
			}
			return provider.Generate(ctx, req)
		})
		all = append(all, attempts...)

		if err == nil {
			result.Provider = name
			c.logger.Info().
				Str("request_id", req.RequestID).
				Str("provider", name).
				Int("attempts", len(attempts)).
				Msg("pipeline: provider succeeded")
			return result, all, nil
		}

		// Overall deadline gone: stop walking, the orchestrator surfaces
		// this as a timeout rather than exhaustion.
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil, all, err
		}

		c.logger.Warn().
			Err(err).
			Str("request_id", req.RequestID).
			Str("provider", name).
			Int("attempts", len(attempts)).
			Msg("pipeline: provider exhausted, advancing")
	}

	return nil, all, fmt.Errorf("%w: %d providers exhausted", domain.ErrGenerationFailed, len(c.providers))
}
