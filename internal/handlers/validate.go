package handlers

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"sitegen/internal/models"
)

// Validation limits for pipeline API inputs.
const (
	maxPathLen     = 500
	maxSectionsLen = 4_000_000
)

// validatePage checks a page ingest request and returns the first error
// found. sections must be a JSON array or an object wrapping one under
// "sections"; the individual entries are not checked here.
func validatePage(path string, sections json.RawMessage) string {
	if msg := validatePath(path); msg != "" {
		return msg
	}

	raw := bytes.TrimSpace(sections)
	if len(raw) == 0 {
		return "Sections are required."
	}
	if len(raw) > maxSectionsLen {
		return "Sections are too large (max 4,000,000 bytes)."
	}
	switch raw[0] {
	case '[':
		return ""
	case '{':
		var wrapped struct {
			Sections json.RawMessage `json:"sections"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return "Sections are not valid JSON."
		}
		if inner := bytes.TrimSpace(wrapped.Sections); len(inner) == 0 || inner[0] != '[' {
			return `Sections object must hold a "sections" array.`
		}
		return ""
	}
	return "Sections must be an array or an object with a sections array."
}

// validatePath checks a page path.
func validatePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "Path must start with a slash."
	}
	if utf8.RuneCountInString(path) > maxPathLen {
		return "Path is too long (max 500 characters)."
	}
	if strings.ContainsAny(path, "?#") {
		return "Path must not contain a query or fragment."
	}
	return ""
}

// validateStatus checks a requested project status.
func validateStatus(status models.ProjectStatus) string {
	if status == "" {
		return "Status is required."
	}
	if !status.Valid() {
		return "Unknown status " + string(status) + "."
	}
	return ""
}
