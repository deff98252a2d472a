// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"bytes"
	"encoding/json"

	"sitegen/internal/models"
)

// NormalizeSections decodes a page's stored sections. Two shapes are
// accepted: a bare array of {name, content} objects (written by the API)
// and an object wrapping that array under "sections" (written directly
// to the database by the workflow runner). Anything else yields an empty
// slice. Array entries that are not objects are skipped.
func NormalizeSections(raw []byte) []models.Section {
	items, ok := sectionItems(raw)
	if !ok {
		return []models.Section{}
	}

	sections := make([]models.Section, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var s models.Section
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		sections = append(sections, s)
	}
	return sections
}

// sectionItems unwraps the raw array elements from either storage shape.
func sectionItems(raw []byte) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, false
		}
		return items, true

	case '{':
		var wrapped struct {
			Sections json.RawMessage `json:"sections"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, false
		}
		inner := bytes.TrimSpace(wrapped.Sections)
		if len(inner) == 0 || inner[0] != '[' {
			return nil, false
		}
		return sectionItems(inner)
	}

	return nil, false
}
