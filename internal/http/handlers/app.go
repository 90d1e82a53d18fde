package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"flyergen/internal/infra"
	"flyergen/internal/pipeline"
	"flyergen/internal/quota"
	"flyergen/internal/storage"
)

// Generator is the orchestrator surface the HTTP layer depends on.
type Generator interface {
	Generate(ctx context.Context, in pipeline.GenerateInput) (*pipeline.Outcome, error)
}

// QuotaReader is the read-only ledger surface for the quota endpoint.
type QuotaReader interface {
	Snapshot(ctx context.Context, userID string) (quota.Status, quota.Snapshot, error)
}

// App bundles the dependencies shared by all handlers.
type App struct {
	Config       *infra.Config
	Logger       infra.Logger
	Orchestrator Generator
	Ledger       QuotaReader
	Store        *storage.FileStore
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}
