package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"flyergen/internal/http/handlers"
	"flyergen/internal/middleware"
)

// NewRouter wires the public HTTP surface. Everything under /v1 except the
// health check requires a bearer token.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.I18N(app.Config.DefaultLocale, lookup))

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Post("/v1/generate", app.Generate)
		r.Get("/v1/quota", app.Quota)

		r.Route("/v1/flyers", func(r chi.Router) {
			r.Get("/{request_id}", app.Flyer)
			r.Get("/{request_id}/archive", app.FlyerArchive)
		})
	})

	return r
}
