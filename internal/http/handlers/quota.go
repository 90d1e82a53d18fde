package handlers

import (
	"net/http"
	"time"

	"flyergen/internal/middleware"
)

type quotaResponse struct {
	Status     string     `json:"status"`
	Usage      quotaUsage `json:"usage"`
	Plan       string     `json:"plan"`
	CycleStart time.Time  `json:"cycle_start"`
	CycleDays  int        `json:"cycle_days"`
}

// Quota reports the caller's current consumption without mutating it.
func (a *App) Quota(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	status, snap, err := a.Ledger.Snapshot(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("quota: snapshot failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not load quota")
		return
	}

	a.json(w, http.StatusOK, quotaResponse{
		Status:     string(status),
		Usage:      quotaUsage{Consumed: snap.Consumed, Limit: snap.Limit},
		Plan:       string(snap.Plan),
		CycleStart: snap.CycleStart,
		CycleDays:  snap.CycleDays,
	})
}
