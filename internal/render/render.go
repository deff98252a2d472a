// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides the fixed status pages shown to site visitors
// instead of a generated page: site not found, site not ready, page not
// found, the generic error page and the form submission thank-you page.
// Pages are embedded html/template files sharing one layout, so every
// variable (business names, status labels) is escaped.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"sitegen/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Renderer.
const (
	PageSiteNotFound = "site_not_found"
	PageSiteNotReady = "site_not_ready"
	PagePageNotFound = "page_not_found"
	PageError        = "error"
	PageSuccess      = "success"
)

var pageNames = []string{PageSiteNotFound, PageSiteNotReady, PagePageNotFound, PageError, PageSuccess}

// PageData holds the values a status page can show.
type PageData struct {
	Title        string
	BusinessName string
	Heading      string
	Message      string
	StatusLabel  string
	Progress     int // percent, site_not_ready only
	Icon         template.HTML
}

// StatusMessage is the heading, copy and icon shown for a pipeline status.
type StatusMessage struct {
	Title   string
	Message string
	Icon    template.HTML
}

var (
	msgCreated = StatusMessage{
		Title:   "Getting Started",
		Message: "We're setting up your website. This usually takes just a moment.",
		Icon:    iconRocket,
	}
	msgGathering = StatusMessage{
		Title:   "Building Your Site",
		Message: "We're gathering information about your business to create the perfect website.",
		Icon:    iconSearch,
	}
	msgGenerating = StatusMessage{
		Title:   "Creating Your Website",
		Message: "Our AI is crafting a beautiful, custom website just for you.",
		Icon:    iconSparkles,
	}
	msgDefault = StatusMessage{
		Title:   "Almost There",
		Message: "Your website is being prepared. Please check back in a few moments.",
		Icon:    iconClock,
	}
)

// StatusMessageFor returns the not-ready copy for a pipeline status.
func StatusMessageFor(s models.ProjectStatus) StatusMessage {
	switch s {
	case models.ProjectStatusCreated:
		return msgCreated
	case models.ProjectStatusGBPSelected:
		return msgGathering
	case models.ProjectStatusGBPScraped, models.ProjectStatusWebsiteScraped, models.ProjectStatusImagesAnalyzed:
		return msgGenerating
	}
	return msgDefault
}

// Progress returns how far through the pipeline a status is, in percent.
// Unknown statuses report 0.
func Progress(s models.ProjectStatus) int {
	rank := s.Rank()
	if rank < 0 {
		return 0
	}
	return (rank + 1) * 100 / len(models.ProjectStatuses())
}

// Renderer executes the embedded status page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// fallbackError is written when the error page itself fails to render.
const fallbackError = "<!doctype html><html><body><h1>Something went wrong</h1></body></html>"

// New parses every status page paired with the shared layout.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"brand":      func() template.CSS { return template.CSS(BrandColor) },
		"brandLight": func() template.CSS { return template.CSS(BrandColorLight) },
		"arrowLeft":  func() template.HTML { return iconArrowLeft },
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Execute renders a status page into a byte slice.
func (rn *Renderer) Execute(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// write renders a page fully before touching w, so a template failure can
// still produce a clean 500 response.
func (rn *Renderer) write(w http.ResponseWriter, status int, name string, data *PageData) {
	body, err := rn.Execute(name, data)
	if err != nil {
		slog.Error("status page render failed", "page", name, "error", err)
		status = http.StatusInternalServerError
		body = []byte(fallbackError)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(body)
}

func titled(businessName, suffix string) string {
	if businessName == "" {
		return suffix
	}
	return businessName + " - " + suffix
}

// SiteNotFound writes the 404 page for unknown hosts.
func (rn *Renderer) SiteNotFound(w http.ResponseWriter) {
	rn.write(w, http.StatusNotFound, PageSiteNotFound, &PageData{
		Title: "Site Not Found",
		Icon:  iconSearchX,
	})
}

// SiteNotReady writes the 200 informational page for projects still in
// the generation pipeline.
func (rn *Renderer) SiteNotReady(w http.ResponseWriter, status models.ProjectStatus, businessName string) {
	msg := StatusMessageFor(status)
	rn.write(w, http.StatusOK, PageSiteNotReady, &PageData{
		Title:        titled(businessName, "Coming Soon"),
		BusinessName: businessName,
		Heading:      msg.Title,
		Message:      msg.Message,
		StatusLabel:  status.Label(),
		Progress:     Progress(status),
		Icon:         msg.Icon,
	})
}

// PageNotFound writes the 404 page for unknown paths on a known site.
func (rn *Renderer) PageNotFound(w http.ResponseWriter, businessName string) {
	rn.write(w, http.StatusNotFound, PagePageNotFound, &PageData{
		Title:        titled(businessName, "Page Not Found"),
		BusinessName: businessName,
		Icon:         iconSearchX,
	})
}

// Error writes the generic 500 page.
func (rn *Renderer) Error(w http.ResponseWriter) {
	rn.write(w, http.StatusInternalServerError, PageError, &PageData{Title: "Something went wrong"})
}

// Success writes the thank-you page shown after a form submission.
func (rn *Renderer) Success(w http.ResponseWriter, businessName string) {
	rn.write(w, http.StatusOK, PageSuccess, &PageData{
		Title:        titled(businessName, "Thank You"),
		BusinessName: businessName,
		Icon:         iconCheckCircle,
	})
}
