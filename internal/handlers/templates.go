// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"sitegen/internal/metrics"
	"sitegen/internal/models"
	"sitegen/internal/store"
)

const opActivateTemplate = "activate_template"

// TemplateCatalog reads templates and switches the active one.
type TemplateCatalog interface {
	List(ctx context.Context) ([]models.Template, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	FindActive(ctx context.Context) (*models.Template, error)
	Activate(ctx context.Context, id uuid.UUID) error
}

// Templates lets the pipeline pick the template new projects are
// generated from. Activation does not touch existing projects, which keep
// their copied markup, so no cached page is invalidated.
type Templates struct {
	templates TemplateCatalog
	metrics   metrics.Recorder
}

// NewTemplates creates the Templates handler group. rec may be nil.
func NewTemplates(templates TemplateCatalog, rec metrics.Recorder) *Templates {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Templates{templates: templates, metrics: rec}
}

// List returns every template ordered by name.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.templates.List(r.Context())
	if err != nil {
		slog.Error("list templates failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	if list == nil {
		list = []models.Template{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Active returns the active template, or 404 when none is active.
func (h *Templates) Active(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.FindActive(r.Context())
	if err != nil {
		slog.Error("find active template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "No active template.")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Activate makes a template the active one. Only published templates can
// be activated.
func (h *Templates) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		h.metrics.IncPipelineWrite(opActivateTemplate, metrics.ResultRejected)
		return
	}

	ctx := r.Context()
	t, err := h.templates.FindByID(ctx, id)
	if err != nil {
		h.fail(w, id, err)
		return
	}
	if t == nil {
		h.metrics.IncPipelineWrite(opActivateTemplate, metrics.ResultRejected)
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if t.Status != models.TemplateStatusPublished {
		h.metrics.IncPipelineWrite(opActivateTemplate, metrics.ResultRejected)
		writeError(w, http.StatusConflict, "Only published templates can be activated.")
		return
	}

	if err := h.templates.Activate(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.metrics.IncPipelineWrite(opActivateTemplate, metrics.ResultRejected)
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		h.fail(w, id, err)
		return
	}

	slog.Info("template activated", "template_id", id, "name", t.Name)
	h.metrics.IncPipelineWrite(opActivateTemplate, metrics.ResultOK)
	t.IsActive = true
	writeJSON(w, http.StatusOK, t)
}

func (h *Templates) fail(w http.ResponseWriter, id uuid.UUID, err error) {
	slog.Error("activate template failed", "template_id", id, "error", err)
	h.metrics.IncPipelineWrite(opActivateTemplate, metrics.ResultError)
	writeError(w, http.StatusInternalServerError, "Internal error.")
}
