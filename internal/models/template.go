// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateStatus is the editorial state of a template.
type TemplateStatus string

const (
	TemplateStatusDraft     TemplateStatus = "draft"
	TemplateStatusPublished TemplateStatus = "published"
)

// Template is a reusable wrapper/header/footer bundle. Projects copy the
// markup when they are generated and keep a weak reference back so the
// template's code snippets still apply to them. At most one template is
// active at a time.
type Template struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Wrapper   string         `json:"wrapper"`
	Header    string         `json:"header"`
	Footer    string         `json:"footer"`
	Status    TemplateStatus `json:"status"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
