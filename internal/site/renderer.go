// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sitegen/internal/engine"
	"sitegen/internal/models"
)

// PageCache stores composed documents per project and page path. Both
// methods are best-effort: failures behave as misses.
type PageCache interface {
	Get(ctx context.Context, projectID uuid.UUID, path string) ([]byte, bool)
	Set(ctx context.Context, projectID uuid.UUID, path string, html []byte)
}

// Result is a gated and, for OutcomeRender, fully composed response.
type Result struct {
	Decision
	HTML   string
	Cached bool
}

// Renderer ties the gate, the snippet sources and the engine together.
type Renderer struct {
	gate        *Gate
	snippets    SnippetFinder
	cache       PageCache
	formAPIBase string
}

// NewRenderer creates a Renderer. cache may be nil to disable caching;
// an empty formAPIBase disables the form interception script.
func NewRenderer(gate *Gate, snippets SnippetFinder, cache PageCache, formAPIBase string) *Renderer {
	return &Renderer{
		gate:        gate,
		snippets:    snippets,
		cache:       cache,
		formAPIBase: formAPIBase,
	}
}

// Render produces the response for a visitor request. The returned error
// is set only for infrastructure failures; every other case is described
// by Result.Outcome.
func (r *Renderer) Render(ctx context.Context, host, path string) (Result, error) {
	if path == "" {
		path = models.HomePath
	}

	d, err := r.gate.Admit(ctx, host)
	if err != nil || d.Outcome != OutcomeRender {
		return Result{Decision: d}, err
	}

	if r.cache != nil {
		if html, ok := r.cache.Get(ctx, d.Project.ID, path); ok {
			return Result{Decision: d, HTML: string(html), Cached: true}, nil
		}
	}

	page, err := r.gate.resolver.ResolvePage(ctx, d.Project.ID, path)
	if err != nil {
		return Result{}, err
	}
	if page == nil {
		d.Outcome = OutcomePageNotFound
		return Result{Decision: d}, nil
	}
	d.Page = page

	html, err := r.Compose(ctx, d.Project, page)
	if err != nil {
		return Result{}, err
	}

	// Fallback renders are stored under the page's own path, so unknown
	// request paths never add cache entries.
	if r.cache != nil {
		r.cache.Set(ctx, d.Project.ID, page.Path, []byte(html))
	}
	return Result{Decision: d, HTML: html}, nil
}

// Compose assembles one page version of a project into the final document.
func (r *Renderer) Compose(ctx context.Context, project *models.Project, page *models.Page) (string, error) {
	snippets, err := r.loadSnippets(ctx, project)
	if err != nil {
		return "", err
	}

	html := engine.Compose(engine.Composition{
		Wrapper:       project.EffectiveWrapper(),
		Header:        project.Header,
		Footer:        project.Footer,
		Sections:      engine.NormalizeSections(page.Sections),
		Snippets:      snippets,
		CurrentPageID: page.ID.String(),
	})
	return engine.InjectFormHandler(html, project.ID.String(), r.formAPIBase), nil
}

// loadSnippets merges the project's template snippets with its own.
func (r *Renderer) loadSnippets(ctx context.Context, project *models.Project) ([]models.CodeSnippet, error) {
	var templateSnippets []models.CodeSnippet
	if project.TemplateID != nil {
		list, err := r.snippets.ListByTemplate(ctx, *project.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("list template snippets: %w", err)
		}
		templateSnippets = list
	}

	projectSnippets, err := r.snippets.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list project snippets: %w", err)
	}
	return engine.MergeSnippets(templateSnippets, projectSnippets), nil
}
