// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sitegen/internal/metrics"
	"sitegen/internal/render"
	"sitegen/internal/site"
)

// Site serves tenant websites on every host. Outcomes other than a rendered
// page are answered with the branded status pages.
type Site struct {
	renderer *site.Renderer
	resolver *site.Resolver
	pages    *render.Renderer
	metrics  metrics.Recorder
}

// NewSite creates the Site handler group. rec may be nil.
func NewSite(renderer *site.Renderer, resolver *site.Resolver, pages *render.Renderer, rec metrics.Recorder) *Site {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Site{
		renderer: renderer,
		resolver: resolver,
		pages:    pages,
		metrics:  rec,
	}
}

// Serve renders the page for the request's host and path.
func (s *Site) Serve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	res, err := s.renderer.Render(r.Context(), r.Host, r.URL.Path)
	if err != nil {
		slog.Error("render site failed", "host", r.Host, "path", r.URL.Path, "error", err)
		s.metrics.ObserveRender("error", time.Since(start))
		s.pages.Error(w)
		return
	}

	switch res.Outcome {
	case site.OutcomeSiteNotFound:
		s.pages.SiteNotFound(w)
	case site.OutcomeSiteNotReady:
		s.pages.SiteNotReady(w, res.Project.Status, res.BusinessName)
	case site.OutcomePageNotFound:
		s.pages.PageNotFound(w, res.Project.BusinessName())
	case site.OutcomeRender:
		s.metrics.IncCacheResult(res.Cached)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.Cached {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(res.HTML))
	}

	s.metrics.ObserveRender(res.Outcome.String(), time.Since(start))
}

// Success shows the thank-you page the form script navigates to. Hosts
// that resolve to no project still get the generic page.
func (s *Site) Success(w http.ResponseWriter, r *http.Request) {
	var businessName string
	project, err := s.resolver.ResolveHost(r.Context(), r.Host)
	if err != nil {
		slog.Warn("success page: resolve host failed", "host", r.Host, "error", err)
	}
	if project != nil {
		businessName = project.BusinessName()
	}
	s.pages.Success(w, businessName)
}

// VerifyDomain answers the reverse proxy's on-demand TLS check: 200 when
// ?domain= belongs to a known project, 404 when it does not.
func (s *Site) VerifyDomain(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	project, err := s.resolver.ResolveHost(r.Context(), domain)
	if err != nil {
		slog.Error("verify domain failed", "domain", domain, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if project == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Favicon answers 204. Tenant icons come from head snippets.
func Favicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
