package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen/internal/models"
	"sitegen/internal/store"
)

type fakeTemplates struct {
	templates   []*models.Template
	activateErr error
}

func (f *fakeTemplates) List(context.Context) ([]models.Template, error) {
	out := make([]models.Template, len(f.templates))
	for i, t := range f.templates {
		out[i] = *t
	}
	return out, nil
}

func (f *fakeTemplates) FindByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	for _, t := range f.templates {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTemplates) FindActive(context.Context) (*models.Template, error) {
	for _, t := range f.templates {
		if t.IsActive {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTemplates) Activate(_ context.Context, id uuid.UUID) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	found := false
	for _, t := range f.templates {
		t.IsActive = t.ID == id
		found = found || t.IsActive
	}
	if !found {
		return store.ErrNotFound
	}
	return nil
}

type templatesFixture struct {
	router  chi.Router
	store   *fakeTemplates
	metrics *recordingMetrics
	clinic  *models.Template
	dental  *models.Template
	draft   *models.Template
}

func newTemplatesFixture() *templatesFixture {
	f := &templatesFixture{
		clinic:  &models.Template{ID: uuid.New(), Name: "Clinic", Status: models.TemplateStatusPublished, IsActive: true},
		dental:  &models.Template{ID: uuid.New(), Name: "Dental", Status: models.TemplateStatusPublished},
		draft:   &models.Template{ID: uuid.New(), Name: "Spa", Status: models.TemplateStatusDraft},
		metrics: newRecordingMetrics(),
	}
	f.store = &fakeTemplates{templates: []*models.Template{f.clinic, f.dental, f.draft}}

	h := NewTemplates(f.store, f.metrics)
	r := chi.NewRouter()
	r.Get("/api/templates", h.List)
	r.Get("/api/templates/active", h.Active)
	r.Put("/api/templates/{id}/activate", h.Activate)
	f.router = r
	return f
}

func (f *templatesFixture) do(method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestTemplatesListAndActive(t *testing.T) {
	f := newTemplatesFixture()

	rr := f.do(http.MethodGet, "/api/templates")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []models.Template
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	assert.Len(t, list, 3)

	rr = f.do(http.MethodGet, "/api/templates/active")
	require.Equal(t, http.StatusOK, rr.Code)
	var active models.Template
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&active))
	assert.Equal(t, f.clinic.ID, active.ID)

	f.clinic.IsActive = false
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/templates/active").Code)
}

func TestTemplatesActivate(t *testing.T) {
	f := newTemplatesFixture()

	rr := f.do(http.MethodPut, "/api/templates/"+f.dental.ID.String()+"/activate")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.Template
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.True(t, got.IsActive)
	assert.True(t, f.dental.IsActive)
	assert.False(t, f.clinic.IsActive, "only one template stays active")
	assert.Equal(t, 1, f.metrics.writes["activate_template/ok"])

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"draft template", "/api/templates/" + f.draft.ID.String() + "/activate", http.StatusConflict},
		{"unknown template", "/api/templates/" + uuid.NewString() + "/activate", http.StatusNotFound},
		{"invalid id", "/api/templates/x/activate", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.do(http.MethodPut, tt.target).Code)
		})
	}
	assert.Equal(t, len(tests), f.metrics.writes["activate_template/rejected"])
	assert.True(t, f.dental.IsActive, "rejected calls keep the active template")
}

func TestTemplatesActivateStoreError(t *testing.T) {
	f := newTemplatesFixture()
	f.store.activateErr = errors.New("deadlock detected")

	rr := f.do(http.MethodPut, "/api/templates/"+f.dental.ID.String()+"/activate")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "deadlock")
	assert.Equal(t, 1, f.metrics.writes["activate_template/error"])
}
