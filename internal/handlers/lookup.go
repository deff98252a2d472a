// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"sitegen/internal/models"
	"sitegen/internal/store"
)

// Invalidation history page size.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// ProjectReader loads a project by id.
type ProjectReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// PageReader loads page versions.
type PageReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	ListVersions(ctx context.Context, projectID uuid.UUID, path string) ([]models.Page, error)
}

// InvalidationHistory lists recorded cache invalidations.
type InvalidationHistory interface {
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// Lookup is the read side of the pipeline API. The pipeline uses it to
// check a project's state and the page versions it has written.
type Lookup struct {
	projects ProjectReader
	pages    PageReader
	history  InvalidationHistory
}

// NewLookup creates the Lookup handler group.
func NewLookup(projects ProjectReader, pages PageReader, history InvalidationHistory) *Lookup {
	return &Lookup{projects: projects, pages: pages, history: history}
}

// GetProject returns a project with its current pipeline status.
func (l *Lookup) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	project, err := l.projects.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("lookup project failed", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// ListPageVersions returns every version of one path of a project, newest
// first. The path comes from the "path" query parameter and defaults to
// the home page.
func (l *Lookup) ListPageVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		path = models.HomePath
	}
	if msg := validatePath(path); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	project, err := l.projects.FindByID(ctx, id)
	if err != nil {
		slog.Error("lookup project failed", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	versions, err := l.pages.ListVersions(ctx, id, path)
	if err != nil {
		slog.Error("list page versions failed", "project_id", id, "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	if versions == nil {
		versions = []models.Page{}
	}
	writeJSON(w, http.StatusOK, versions)
}

// GetPage returns one page version.
func (l *Lookup) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	page, err := l.pages.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("lookup page failed", "page_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	if page == nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// RecentInvalidations returns the latest cache invalidation events. The
// optional "limit" query parameter is capped at maxHistoryLimit.
func (l *Lookup) RecentInvalidations(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer.")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := l.history.RecentEntries(r.Context(), limit)
	if err != nil {
		slog.Error("list cache invalidations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	if entries == nil {
		entries = []store.CacheLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
