// Package router sets up the HTTP routes and middleware chain of the
// sitegen server. Fixed endpoints are registered first; every other GET
// on any host falls through to the tenant site handler.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sitegen/internal/handlers"
	"sitegen/internal/middleware"
)

// Deps carries the handlers and settings the routes are built from.
// Metrics and RateLimiter may be nil.
type Deps struct {
	Site          *handlers.Site
	Pipeline      *handlers.Pipeline
	Lookup        *handlers.Lookup
	Templates     *handlers.Templates
	Metrics       http.Handler
	ErrorPage     middleware.ErrorPage
	RateLimiter   *middleware.RateLimiter
	PipelineToken string
	MetricsToken  string
	HSTS          bool
}

// New creates the configured chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(d.ErrorPage))
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(d.HSTS))
	r.Use(chimw.GetHead)

	// Infrastructure endpoints, never rate limited. Every tenant host
	// reaches these, so metrics need a scrape token.
	r.Get("/health", healthHandler)
	if d.Metrics != nil {
		r.With(middleware.RequireToken(d.MetricsToken)).Method(http.MethodGet, "/metrics", d.Metrics)
	}
	r.Get("/favicon.ico", handlers.Favicon)
	r.Get("/verify-domain", d.Site.VerifyDomain)

	r.Group(func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Middleware)
		}

		// Pipeline ingest API.
		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.RequireToken(d.PipelineToken))
			r.Post("/projects/{id}/pages", d.Pipeline.CreatePage)
			r.Put("/projects/{id}/status", d.Pipeline.UpdateStatus)
			r.Post("/pages/{id}/publish", d.Pipeline.PublishPage)
			r.Delete("/cache", d.Pipeline.FlushCache)

			r.Get("/projects/{id}", d.Lookup.GetProject)
			r.Get("/projects/{id}/pages", d.Lookup.ListPageVersions)
			r.Get("/pages/{id}", d.Lookup.GetPage)
			r.Get("/cache/invalidations", d.Lookup.RecentInvalidations)

			r.Get("/templates", d.Templates.List)
			r.Get("/templates/active", d.Templates.Active)
			r.Put("/templates/{id}/activate", d.Templates.Activate)
		})

		// Tenant sites.
		r.Get("/success", d.Site.Success)
		r.Get("/*", d.Site.Serve)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
