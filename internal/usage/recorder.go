// Package usage persists per-request observability events. Recording is
// best-effort: a failed insert is logged, never surfaced to the caller.
package usage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"flyergen/internal/infra"
	"flyergen/internal/sqlinline"
)

// Event is one observable fact about a generation request.
type Event struct {
	UserID     string
	RequestID  string
	Provider   string
	Type       string
	Success    bool
	Latency    time.Duration
	Properties map[string]any
}

type Recorder struct {
	sql    infra.SQLExecutor
	logger zerolog.Logger
}

func NewRecorder(sql infra.SQLExecutor, logger zerolog.Logger) *Recorder {
	return &Recorder{sql: sql, logger: logger}
}

// Record inserts a usage event, swallowing any storage error.
func (r *Recorder) Record(ctx context.Context, ev Event) {
	if r == nil || r.sql == nil {
		return
	}
	props, err := json.Marshal(ev.Properties)
	if err != nil {
		props = []byte("{}")
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertUsageEvent,
		ev.UserID, ev.RequestID, ev.Provider, ev.Type, ev.Success, ev.Latency.Milliseconds(), props,
	); err != nil {
		r.logger.Warn().Err(err).Str("request_id", ev.RequestID).Msg("usage: record event failed")
	}
}
