package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"flyergen/internal/domain"
	"flyergen/internal/domain/stylecfg"
	"flyergen/internal/quota"
	"flyergen/internal/usage"
)

// Admission is the short-window throttle consulted before any quota work.
type Admission interface {
	Allow(key string) bool
}

// Ledger is the subset of the quota ledger the orchestrator needs.
type Ledger interface {
	Reserve(ctx context.Context, userID string) (quota.Status, quota.Snapshot, error)
	Commit(ctx context.Context, userID string) (int, error)
}

// Classifier resolves a niche tag; it never fails.
type Classifier interface {
	Classify(ctx context.Context, description, extra string) domain.NicheTag
}

// Composer produces the generation brief.
type Composer interface {
	Compose(ctx context.Context, profile domain.BusinessProfile, niche domain.NicheTag, style stylecfg.Style, locale string) (domain.GenerationBrief, error)
}

// Runner drives the provider chain.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, []Attempt, error)
}

// ArtifactStore persists the generated flyer; it is an external collaborator
// from the pipeline's point of view.
type ArtifactStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// UsageRecorder receives best-effort observability events.
type UsageRecorder interface {
	Record(ctx context.Context, ev usage.Event)
}

// QuotaExceededError carries the ledger snapshot so the HTTP surface can
// report usage and plan alongside the rejection.
type QuotaExceededError struct {
	Snapshot quota.Snapshot
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %d/%d used", e.Snapshot.Consumed, e.Snapshot.Limit)
}

func (e *QuotaExceededError) Unwrap() error { return domain.ErrQuotaExceeded }

// GenerateInput is one flyer request.
type GenerateInput struct {
	UserID    string
	RequestID string
	Locale    string
	Profile   domain.BusinessProfile
}

// Outcome is the successful result of a generation request.
type Outcome struct {
	RequestID   string
	Provider    string
	StorageKey  string
	Format      string
	Width       int
	Height      int
	Brief       domain.GenerationBrief
	QuotaStatus quota.Status
	Quota       quota.Snapshot
	Consumed    int
}

// Orchestrator composes admission, quota, classification, brief direction,
// and the provider chain into one request lifecycle.
type Orchestrator struct {
	admission  Admission
	ledger     Ledger
	classifier Classifier
	composer   Composer
	runner     Runner
	store      ArtifactStore
	usage      UsageRecorder
	styles     stylecfg.Set
	deadline   time.Duration
	logger     zerolog.Logger
}

type OrchestratorOptions struct {
	Admission  Admission
	Ledger     Ledger
	Classifier Classifier
	Composer   Composer
	Runner     Runner
	Store      ArtifactStore
	Usage      UsageRecorder
	Styles     stylecfg.Set
	Deadline   time.Duration
	Logger     zerolog.Logger
}

func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	styles := opts.Styles
	if styles == nil {
		styles = stylecfg.Defaults()
	}
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 5 * time.Minute
	}
	return &Orchestrator{
		admission:  opts.Admission,
		ledger:     opts.Ledger,
		classifier: opts.Classifier,
		composer:   opts.Composer,
		runner:     opts.Runner,
		store:      opts.Store,
		usage:      opts.Usage,
		styles:     styles,
		deadline:   deadline,
		logger:     opts.Logger,
	}
}

// Generate runs the full pipeline for one request. Quota is committed only
// after the artifact is durably stored; any failure before that point leaves
// the counter untouched.
func (o *Orchestrator) Generate(ctx context.Context, in GenerateInput) (*Outcome, error) {
	if !o.admission.Allow(in.UserID) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrTooManyRequests, in.UserID)
	}

	status, snap, err := o.ledger.Reserve(ctx, in.UserID)
	if err != nil {
		// Ledger storage failures are terminal: quota correctness is a
		// hard invariant, there is no silent-allow fallback.
		return nil, err
	}
	if status == quota.StatusBlocked {
		return nil, &QuotaExceededError{Snapshot: snap}
	}

	if err := in.Profile.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	niche := o.classifier.Classify(ctx, in.Profile.Description, in.Profile.Name)
	style := o.styles.For(niche)

	brief, err := o.composer.Compose(ctx, in.Profile, niche, style, in.Locale)
	if err != nil {
		return nil, err
	}

	result, attempts, err := o.runner.Run(ctx, Request{
		RequestID: in.RequestID,
		Brief:     brief,
		Profile:   in.Profile,
		Style:     style,
	})
	o.recordAttempts(in, attempts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err())
		}
		if errors.Is(err, domain.ErrGenerationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	key := storageKey(in.RequestID, result.Format)
	storedKey, err := o.store.Write(ctx, key, result.Data)
	if err != nil {
		// Provider cost is already spent; surface this distinctly and do
		// not touch the quota counter.
		o.logger.Error().Err(err).Str("request_id", in.RequestID).Msg("orchestrator: artifact persistence failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	consumed, err := o.ledger.Commit(ctx, in.UserID)
	if err != nil {
		o.logger.Error().Err(err).
			Str("request_id", in.RequestID).
			Str("storage_key", storedKey).
			Msg("orchestrator: quota commit failed after persistence")
		return nil, err
	}

	o.record(ctx, in, usage.Event{
		UserID:    in.UserID,
		RequestID: in.RequestID,
		Provider:  result.Provider,
		Type:      "generation",
		Success:   true,
		Properties: map[string]any{
			"niche":        string(brief.Niche),
			"brief_source": string(brief.Source),
			"storage_key":  storedKey,
		},
	})

	return &Outcome{
		RequestID:   in.RequestID,
		Provider:    result.Provider,
		StorageKey:  storedKey,
		Format:      result.Format,
		Width:       result.Width,
		Height:      result.Height,
		Brief:       brief,
		QuotaStatus: status,
		Quota:       snap,
		Consumed:    consumed,
	}, nil
}

func (o *Orchestrator) recordAttempts(in GenerateInput, attempts []Attempt) {
	if o.usage == nil {
		return
	}
	// Detached context: attempt records should survive the request deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, a := range attempts {
		props := map[string]any{"attempt": a.Number}
		if a.Err != nil {
			props["error"] = a.Err.Error()
		}
		o.usage.Record(ctx, usage.Event{
			UserID:     in.UserID,
			RequestID:  in.RequestID,
			Provider:   a.Provider,
			Type:       "provider_attempt:" + string(a.Outcome),
			Success:    a.Outcome == OutcomeSuccess,
			Latency:    a.Latency,
			Properties: props,
		})
	}
}

func (o *Orchestrator) record(ctx context.Context, in GenerateInput, ev usage.Event) {
	if o.usage == nil {
		return
	}
	o.usage.Record(ctx, ev)
}

func storageKey(requestID, format string) string {
	ext := ".png"
	switch format {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("flyers/%s/flyer-01%s", requestID, ext)
}
