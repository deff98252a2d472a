// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitegen/internal/metrics"
	"sitegen/internal/models"
	"sitegen/internal/store"
)

// maxRequestBody caps pipeline API payloads.
const maxRequestBody = 5 << 20

// Pipeline operation names used in logs and metric labels.
const (
	opCreatePage   = "create_page"
	opPublishPage  = "publish_page"
	opUpdateStatus = "update_status"
	opFlushCache   = "flush_cache"
)

// PageWriter creates and publishes page versions.
type PageWriter interface {
	CreateDraft(ctx context.Context, projectID uuid.UUID, path string, sections []byte) (*models.Page, error)
	CreatePublished(ctx context.Context, projectID uuid.UUID, path string, sections []byte) (*models.Page, error)
	Publish(ctx context.Context, pageID uuid.UUID) (*models.Page, error)
}

// StatusWriter advances a project's pipeline status.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, next models.ProjectStatus) error
}

// Invalidator drops cached pages and reports how many.
type Invalidator interface {
	InvalidateProject(ctx context.Context, projectID uuid.UUID) int
	InvalidateAll(ctx context.Context) int
}

// InvalidationLog records invalidation events.
type InvalidationLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
}

// Pipeline is the write API used by the site generation pipeline.
type Pipeline struct {
	pages    PageWriter
	projects StatusWriter
	cache    Invalidator
	cacheLog InvalidationLog
	metrics  metrics.Recorder
}

// NewPipeline creates the Pipeline handler group. cache, cacheLog and rec
// may be nil.
func NewPipeline(pages PageWriter, projects StatusWriter, cache Invalidator, cacheLog InvalidationLog, rec metrics.Recorder) *Pipeline {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Pipeline{
		pages:    pages,
		projects: projects,
		cache:    cache,
		cacheLog: cacheLog,
		metrics:  rec,
	}
}

type createPageRequest struct {
	Path     string          `json:"path"`
	Sections json.RawMessage `json:"sections"`
	Publish  bool            `json:"publish"`
}

type updateStatusRequest struct {
	Status models.ProjectStatus `json:"status"`
}

// CreatePage stores a new draft version of a page, or with publish set a
// new live version written in a single transaction.
func (p *Pipeline) CreatePage(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		p.metrics.IncPipelineWrite(opCreatePage, metrics.ResultRejected)
		return
	}

	var req createPageRequest
	if !decodeBody(w, r, &req) {
		p.metrics.IncPipelineWrite(opCreatePage, metrics.ResultRejected)
		return
	}
	if req.Path == "" {
		req.Path = models.HomePath
	}
	if msg := validatePage(req.Path, req.Sections); msg != "" {
		p.metrics.IncPipelineWrite(opCreatePage, metrics.ResultRejected)
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	create := p.pages.CreateDraft
	if req.Publish {
		create = p.pages.CreatePublished
	}
	page, err := create(ctx, projectID, req.Path, req.Sections)
	if err != nil {
		p.writeStoreError(w, opCreatePage, err, "project_id", projectID)
		return
	}

	slog.Info("page version stored",
		"project_id", projectID,
		"path", page.Path,
		"version", page.Version,
		"status", page.Status,
	)
	p.invalidate(ctx, "page", page.ID, projectID, "create")
	p.metrics.IncPipelineWrite(opCreatePage, metrics.ResultOK)
	writeJSON(w, http.StatusCreated, page)
}

// PublishPage makes a page version the live one for its path.
func (p *Pipeline) PublishPage(w http.ResponseWriter, r *http.Request) {
	pageID, ok := uuidParam(w, r, "id")
	if !ok {
		p.metrics.IncPipelineWrite(opPublishPage, metrics.ResultRejected)
		return
	}

	ctx := r.Context()
	page, err := p.pages.Publish(ctx, pageID)
	if err != nil {
		p.writeStoreError(w, opPublishPage, err, "page_id", pageID)
		return
	}

	slog.Info("page published", "page_id", page.ID, "project_id", page.ProjectID, "path", page.Path, "version", page.Version)
	p.invalidate(ctx, "page", page.ID, page.ProjectID, "publish")
	p.metrics.IncPipelineWrite(opPublishPage, metrics.ResultOK)
	writeJSON(w, http.StatusOK, page)
}

// UpdateStatus advances a project's pipeline status. Regressions are
// rejected with 409.
func (p *Pipeline) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		p.metrics.IncPipelineWrite(opUpdateStatus, metrics.ResultRejected)
		return
	}

	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		p.metrics.IncPipelineWrite(opUpdateStatus, metrics.ResultRejected)
		return
	}
	if msg := validateStatus(req.Status); msg != "" {
		p.metrics.IncPipelineWrite(opUpdateStatus, metrics.ResultRejected)
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	if err := p.projects.UpdateStatus(ctx, projectID, req.Status); err != nil {
		p.writeStoreError(w, opUpdateStatus, err, "project_id", projectID)
		return
	}

	slog.Info("project status updated", "project_id", projectID, "status", req.Status)
	p.invalidate(ctx, "project", projectID, projectID, "status")
	p.metrics.IncPipelineWrite(opUpdateStatus, metrics.ResultOK)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// FlushCache drops every cached page of every project.
func (p *Pipeline) FlushCache(w http.ResponseWriter, r *http.Request) {
	deleted := 0
	if p.cache != nil {
		deleted = p.cache.InvalidateAll(r.Context())
		p.metrics.IncCacheInvalidation(deleted)
	}

	slog.Info("page cache flushed", "keys", deleted)
	p.metrics.IncPipelineWrite(opFlushCache, metrics.ResultOK)
	writeJSON(w, http.StatusOK, map[string]int{"invalidated": deleted})
}

// invalidate drops the project's cached pages and records the event
// against the written entity.
func (p *Pipeline) invalidate(ctx context.Context, entityType string, entityID, projectID uuid.UUID, action string) {
	if p.cache != nil {
		p.metrics.IncCacheInvalidation(p.cache.InvalidateProject(ctx, projectID))
	}
	if p.cacheLog != nil {
		p.cacheLog.Log(ctx, entityType, entityID, action)
	}
}

// writeStoreError maps store and model errors to HTTP statuses.
func (p *Pipeline) writeStoreError(w http.ResponseWriter, op string, err error, idKey string, id uuid.UUID) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		p.metrics.IncPipelineWrite(op, metrics.ResultRejected)
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, models.ErrStatusRegression):
		p.metrics.IncPipelineWrite(op, metrics.ResultRejected)
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrUnknownStatus):
		p.metrics.IncPipelineWrite(op, metrics.ResultRejected)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("pipeline write failed", "op", op, idKey, id, "error", err)
		p.metrics.IncPipelineWrite(op, metrics.ResultError)
		writeError(w, http.StatusInternalServerError, "Internal error.")
	}
}

// uuidParam parses a chi URL parameter, answering 400 when it is not a UUID.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name+".")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody reads a JSON request body into dst, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
