// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import (
	"context"
	"fmt"
	"net/http"

	"sitegen/internal/models"
)

// Outcome is the kind of response a visitor request produces.
type Outcome int

const (
	OutcomeSiteNotFound Outcome = iota
	OutcomeSiteNotReady
	OutcomePageNotFound
	OutcomeRender
)

// String returns the outcome name used in logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case OutcomeSiteNotFound:
		return "site_not_found"
	case OutcomeSiteNotReady:
		return "site_not_ready"
	case OutcomePageNotFound:
		return "page_not_found"
	case OutcomeRender:
		return "render"
	}
	return "unknown"
}

// StatusCode returns the HTTP status for the outcome. Not-ready is an
// expected transient state and answers 200.
func (o Outcome) StatusCode() int {
	switch o {
	case OutcomeSiteNotFound, OutcomePageNotFound:
		return http.StatusNotFound
	}
	return http.StatusOK
}

// Decision is the result of gating one request.
type Decision struct {
	Outcome Outcome
	Project *models.Project // nil for OutcomeSiteNotFound
	Page    *models.Page    // set for OutcomeRender unless served from cache

	// StatusLabel and BusinessName feed the not-ready page.
	StatusLabel  string
	BusinessName string
}

// Gate decides whether a project's pages may be served yet.
type Gate struct {
	resolver *Resolver
	pages    PageFinder
}

// NewGate creates a Gate.
func NewGate(resolver *Resolver, pages PageFinder) *Gate {
	return &Gate{resolver: resolver, pages: pages}
}

// Admit resolves the project for host and applies the readiness rule.
// Projects in HTML_GENERATED or READY always pass; earlier statuses pass
// only once at least one page has been published, so a regenerating site
// keeps serving its live pages. The returned Outcome is OutcomeRender when
// the caller may go on to page resolution.
func (g *Gate) Admit(ctx context.Context, host string) (Decision, error) {
	project, err := g.resolver.ResolveHost(ctx, host)
	if err != nil {
		return Decision{}, err
	}
	if project == nil {
		return Decision{Outcome: OutcomeSiteNotFound}, nil
	}

	d := Decision{Outcome: OutcomeRender, Project: project}
	if project.Status.Servable() {
		return d, nil
	}

	published, err := g.pages.HasPublished(ctx, project.ID)
	if err != nil {
		return Decision{}, fmt.Errorf("check published pages: %w", err)
	}
	if !published {
		d.Outcome = OutcomeSiteNotReady
		d.StatusLabel = project.Status.Label()
		d.BusinessName = project.BusinessName()
	}
	return d, nil
}

// Decide is Admit followed by page resolution for path.
func (g *Gate) Decide(ctx context.Context, host, path string) (Decision, error) {
	d, err := g.Admit(ctx, host)
	if err != nil || d.Outcome != OutcomeRender {
		return d, err
	}

	page, err := g.resolver.ResolvePage(ctx, d.Project.ID, path)
	if err != nil {
		return Decision{}, err
	}
	if page == nil {
		d.Outcome = OutcomePageNotFound
		return d, nil
	}
	d.Page = page
	return d, nil
}
