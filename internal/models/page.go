// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PageStatus is the lifecycle state of one page version.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
	PageStatusInactive  PageStatus = "inactive"
)

// HomePath is the path of a project's home page.
const HomePath = "/"

// Page is one version of a generated page. Versions are never edited in
// place: a new draft supersedes the previous draft and publishing
// supersedes the previous published row.
//
// Sections is kept as raw JSON because producers have written two shapes
// over time (a bare array and {"sections": [...]}); see
// engine.NormalizeSections.
type Page struct {
	ID        uuid.UUID       `json:"id"`
	ProjectID uuid.UUID       `json:"project_id"`
	Path      string          `json:"path"`
	Version   int             `json:"version"`
	Status    PageStatus      `json:"status"`
	Sections  json.RawMessage `json:"sections"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsPublished returns true if the page version is the live published one.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// Section is a named HTML fragment of a page, rendered in stored order.
type Section struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}
