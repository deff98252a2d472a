// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site turns an inbound visitor request (host + path) into a
// rendered generated site. It resolves the tenant project from the host,
// gates projects whose pipeline has not finished, picks the page version
// to serve and hands everything to the engine package for composition.
//
// Persistence is reached only through the small finder interfaces below,
// implemented by the store package and by in-memory fakes in tests.
package site

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sitegen/internal/models"
)

// ProjectFinder looks up projects by host. Both methods return (nil, nil)
// when nothing matches.
type ProjectFinder interface {
	FindByHostname(ctx context.Context, hostname string) (*models.Project, error)
	FindByCustomDomain(ctx context.Context, domain string) (*models.Project, error)
}

// PageFinder looks up page versions. FindByPathAndStatus returns (nil, nil)
// when no row matches.
type PageFinder interface {
	FindByPathAndStatus(ctx context.Context, projectID uuid.UUID, path string, status models.PageStatus) (*models.Page, error)
	HasPublished(ctx context.Context, projectID uuid.UUID) (bool, error)
}

// SnippetFinder lists the code snippets attached to a template or project.
type SnippetFinder interface {
	ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]models.CodeSnippet, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.CodeSnippet, error)
}

// Resolver maps hosts to projects and paths to page versions.
type Resolver struct {
	hosts    *HostMatcher
	projects ProjectFinder
	pages    PageFinder
}

// NewResolver creates a Resolver for the given sites label.
func NewResolver(sitesLabel string, projects ProjectFinder, pages PageFinder) *Resolver {
	return &Resolver{
		hosts:    NewHostMatcher(sitesLabel),
		projects: projects,
		pages:    pages,
	}
}

// ResolveHost finds the project a Host header points at. Unknown hosts and
// custom domains without a verification timestamp both resolve to nil.
func (r *Resolver) ResolveHost(ctx context.Context, host string) (*models.Project, error) {
	return r.ResolveProject(ctx, r.hosts.Parse(host))
}

// ResolveProject finds the project for an already parsed host.
func (r *Resolver) ResolveProject(ctx context.Context, target HostTarget) (*models.Project, error) {
	switch {
	case target.Hostname != "":
		p, err := r.projects.FindByHostname(ctx, target.Hostname)
		if err != nil {
			return nil, fmt.Errorf("resolve hostname %s: %w", target.Hostname, err)
		}
		return p, nil

	case target.CustomDomain != "":
		p, err := r.projects.FindByCustomDomain(ctx, target.CustomDomain)
		if err != nil {
			return nil, fmt.Errorf("resolve custom domain %s: %w", target.CustomDomain, err)
		}
		if p == nil || !p.DomainVerified() {
			return nil, nil
		}
		return p, nil
	}
	return nil, nil
}

// ResolvePage picks the page version to serve for path: the published
// version, else the draft. Unknown paths fall back to the home page the
// same way. Returns nil when neither path has a servable version.
func (r *Resolver) ResolvePage(ctx context.Context, projectID uuid.UUID, path string) (*models.Page, error) {
	if path == "" {
		path = models.HomePath
	}

	page, err := r.pageForPath(ctx, projectID, path)
	if err != nil || page != nil || path == models.HomePath {
		return page, err
	}
	return r.pageForPath(ctx, projectID, models.HomePath)
}

func (r *Resolver) pageForPath(ctx context.Context, projectID uuid.UUID, path string) (*models.Page, error) {
	for _, status := range []models.PageStatus{models.PageStatusPublished, models.PageStatusDraft} {
		page, err := r.pages.FindByPathAndStatus(ctx, projectID, path, status)
		if err != nil {
			return nil, fmt.Errorf("find %s page %s: %w", status, path, err)
		}
		if page != nil {
			return page, nil
		}
	}
	return nil, nil
}
