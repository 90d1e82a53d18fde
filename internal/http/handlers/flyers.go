package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flyergen/internal/middleware"
	appzip "flyergen/pkg/zip"
)

// Flyer streams the stored flyer image for a previous generation.
func (a *App) Flyer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	requestID := chi.URLParam(r, "request_id")
	if _, err := uuid.Parse(requestID); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid flyer id")
		return
	}

	keys, err := a.Store.List(r.Context(), "flyers/"+requestID)
	if err != nil || len(keys) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "flyer not found")
		return
	}

	data, err := a.Store.Read(r.Context(), keys[0])
	if err != nil {
		a.Logger.Error().Err(err).Str("key", keys[0]).Msg("flyers: read failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not read flyer")
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(keys[0]))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// FlyerArchive bundles every artifact of a generation into a single zip.
func (a *App) FlyerArchive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	requestID := chi.URLParam(r, "request_id")
	if _, err := uuid.Parse(requestID); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid flyer id")
		return
	}

	keys, err := a.Store.List(r.Context(), "flyers/"+requestID)
	if err != nil || len(keys) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "flyer not found")
		return
	}

	files := make([]appzip.File, 0, len(keys))
	for _, key := range keys {
		data, err := a.Store.Read(r.Context(), key)
		if err != nil {
			a.Logger.Error().Err(err).Str("key", key).Msg("flyers: read failed")
			a.error(w, http.StatusInternalServerError, "internal", "could not read flyer")
			return
		}
		files = append(files, appzip.File{Name: path.Base(key), Data: data})
	}

	archive := appzip.Archive(files)
	if len(archive) == 0 {
		a.Logger.Error().Str("request_id", requestID).Msg("flyers: archive is empty")
		a.error(w, http.StatusInternalServerError, "internal", "could not build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "flyer-"+requestID+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func contentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
