// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine assembles generated sites into final HTML documents. It
// normalizes stored page sections, strips elements marked hidden, merges
// template and project code snippets, substitutes the composed body into
// the project's wrapper and appends the form interception script.
//
// Every function here is pure and total: malformed input degrades to a
// safe output instead of an error, so the package can sit on the hot
// path of every visitor request without shared state.
package engine

import (
	"strings"

	"sitegen/internal/models"
)

// ConfigErrorPage is served in place of a composed page when the wrapper
// has no slot marker. It is a fixed document so misconfiguration is
// visible and never renders an empty or broken page.
const ConfigErrorPage = `<!doctype html><html><head><meta charset="UTF-8"></head><body>
<div style="max-width:600px;margin:80px auto;font-family:system-ui;text-align:center">
<h1 style="font-size:1.5rem;color:#991b1b">Configuration Error</h1>
<p style="color:#6b7280;margin-top:12px">The site wrapper is missing the <code>{{slot}}</code> placeholder. Page content cannot be rendered.</p>
</div></body></html>`

// Composition holds everything needed to assemble one page.
type Composition struct {
	Wrapper  string
	Header   string
	Footer   string
	Sections []models.Section

	// Snippets is the merged template+project list (see MergeSnippets).
	Snippets []models.CodeSnippet

	// CurrentPageID drives snippet page targeting. Empty means preview:
	// every targeted snippet applies.
	CurrentPageID string
}

// Compose builds the final HTML for a page. Sections whose root element
// is hidden are dropped whole. Hidden elements are stripped from the
// header, footer and remaining sections, and the non-empty parts are
// joined with newlines in header, sections, footer order. The result
// replaces the first slot marker in the wrapper, then applicable snippets
// are injected.
//
// Content is returned verbatim: it comes from the generation pipeline,
// not from visitors, and is not sanitized here.
func Compose(c Composition) string {
	if !strings.Contains(c.Wrapper, models.SlotMarker) {
		return ConfigErrorPage
	}

	html := strings.Replace(c.Wrapper, models.SlotMarker, composeBody(c), 1)

	if groups := FilterSnippets(c.Snippets, c.CurrentPageID); !groups.Empty() {
		html = InjectSnippets(html, groups)
	}
	return html
}

// composeBody joins the visible fragments of a page.
func composeBody(c Composition) string {
	parts := make([]string, 0, len(c.Sections)+2)

	appendStripped := func(fragment string) {
		if stripped := StripHidden(fragment); stripped != "" {
			parts = append(parts, stripped)
		}
	}

	appendStripped(c.Header)
	for _, s := range c.Sections {
		if IsHidden(s.Content) {
			continue
		}
		appendStripped(s.Content)
	}
	appendStripped(c.Footer)

	return strings.Join(parts, "\n")
}
