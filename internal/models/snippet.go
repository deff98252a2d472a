// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SnippetLocation names a document boundary where snippet code is injected.
type SnippetLocation string

const (
	SnippetHeadStart SnippetLocation = "head_start"
	SnippetHeadEnd   SnippetLocation = "head_end"
	SnippetBodyStart SnippetLocation = "body_start"
	SnippetBodyEnd   SnippetLocation = "body_end"
)

// SnippetLocations returns the injection points in document order.
func SnippetLocations() []SnippetLocation {
	return []SnippetLocation{SnippetHeadStart, SnippetHeadEnd, SnippetBodyStart, SnippetBodyEnd}
}

// Valid reports whether l is one of the four injection points.
func (l SnippetLocation) Valid() bool {
	switch l {
	case SnippetHeadStart, SnippetHeadEnd, SnippetBodyStart, SnippetBodyEnd:
		return true
	}
	return false
}

// CodeSnippet is third-party code (analytics, chat widgets, styles)
// attached to either a template or a project. A project snippet with the
// same Name and Location as a template snippet overrides it.
type CodeSnippet struct {
	ID         uuid.UUID       `json:"id"`
	TemplateID *uuid.UUID      `json:"template_id,omitempty"`
	ProjectID  *uuid.UUID      `json:"project_id,omitempty"`
	Name       string          `json:"name"`
	Location   SnippetLocation `json:"location"`
	OrderIndex int             `json:"order_index"`
	IsEnabled  bool            `json:"is_enabled"`
	PageIDs    []string        `json:"page_ids,omitempty"` // empty means every page
	Code       string          `json:"code"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AppliesTo reports whether the snippet targets the given page. An empty
// pageID (preview, unknown page) matches every snippet.
func (s *CodeSnippet) AppliesTo(pageID string) bool {
	if len(s.PageIDs) == 0 || pageID == "" {
		return true
	}
	for _, id := range s.PageIDs {
		if id == pageID {
			return true
		}
	}
	return false
}
