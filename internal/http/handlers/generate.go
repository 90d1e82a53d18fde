package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"flyergen/internal/domain"
	"flyergen/internal/middleware"
	"flyergen/internal/pipeline"
	"flyergen/internal/quota"
)

type generateResponse struct {
	FlyerID    string        `json:"flyer_id"`
	StorageKey string        `json:"storage_key"`
	Provider   string        `json:"provider"`
	Format     string        `json:"format"`
	Width      int           `json:"width,omitempty"`
	Height     int           `json:"height,omitempty"`
	Niche      string        `json:"niche"`
	Quota      quotaEnvelope `json:"quota"`
}

type quotaEnvelope struct {
	Status string     `json:"status"`
	Usage  quotaUsage `json:"usage"`
	Plan   string     `json:"plan"`
}

type quotaUsage struct {
	Consumed int `json:"consumed"`
	Limit    int `json:"limit"`
}

// Generate is the single entry point for flyer generation.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var profile domain.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}

	outcome, err := a.Orchestrator.Generate(r.Context(), pipeline.GenerateInput{
		UserID:    userID,
		RequestID: requestID,
		Locale:    middleware.LocaleFromContext(r.Context()),
		Profile:   profile,
	})
	if err != nil {
		a.generateError(w, err)
		return
	}

	consumed := outcome.Consumed
	if consumed == 0 {
		consumed = outcome.Quota.Consumed
	}
	a.json(w, http.StatusOK, generateResponse{
		FlyerID:    outcome.RequestID,
		StorageKey: outcome.StorageKey,
		Provider:   outcome.Provider,
		Format:     outcome.Format,
		Width:      outcome.Width,
		Height:     outcome.Height,
		Niche:      string(outcome.Brief.Niche),
		Quota: quotaEnvelope{
			Status: string(outcome.QuotaStatus),
			Usage:  quotaUsage{Consumed: consumed, Limit: outcome.Quota.Limit},
			Plan:   string(outcome.Quota.Plan),
		},
	})
}

// generateError maps pipeline failures onto the HTTP error surface. The
// admission rejection and the quota rejection are deliberately distinct
// status codes so clients can tell backoff from upgrade.
func (a *App) generateError(w http.ResponseWriter, err error) {
	var quotaErr *pipeline.QuotaExceededError
	switch {
	case errors.As(err, &quotaErr):
		a.json(w, http.StatusForbidden, map[string]any{
			"error":       "quota_exceeded",
			"quotaStatus": string(quota.StatusBlocked),
			"usage":       quotaUsage{Consumed: quotaErr.Snapshot.Consumed, Limit: quotaErr.Snapshot.Limit},
			"plan":        string(quotaErr.Snapshot.Plan),
		})
	case errors.Is(err, domain.ErrTooManyRequests):
		a.error(w, http.StatusTooManyRequests, "too_many_requests", "request rate exceeded, slow down")
	case errors.Is(err, domain.ErrInvalidRequest):
		a.error(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrTimeout):
		a.error(w, http.StatusGatewayTimeout, "timeout", "generation did not finish in time")
	case errors.Is(err, domain.ErrStorageFailure):
		a.error(w, http.StatusInternalServerError, "storage_failure", "flyer was generated but could not be stored")
	case errors.Is(err, domain.ErrGenerationFailed):
		a.error(w, http.StatusInternalServerError, "generation_failed", "all providers exhausted")
	default:
		a.Logger.Error().Err(err).Msg("generate: internal failure")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
