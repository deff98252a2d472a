package models

import "testing"

// TestTemplateStatusConstants verifies that template status string constants
// have the expected values.
func TestTemplateStatusConstants(t *testing.T) {
	tests := []struct {
		name     string
		ts       TemplateStatus
		expected string
	}{
		{name: "draft", ts: TemplateStatusDraft, expected: "draft"},
		{name: "published", ts: TemplateStatusPublished, expected: "published"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.ts) != tc.expected {
				t.Errorf("TemplateStatus %s = %q, want %q", tc.name, string(tc.ts), tc.expected)
			}
		})
	}
}

// TestSnippetLocationValid ensures only the four injection points validate.
func TestSnippetLocationValid(t *testing.T) {
	for _, loc := range SnippetLocations() {
		if !loc.Valid() {
			t.Errorf("SnippetLocation %q should be valid", loc)
		}
	}

	for _, bad := range []SnippetLocation{"", "head", "footer", "HEAD_START"} {
		if bad.Valid() {
			t.Errorf("SnippetLocation %q should not be valid", bad)
		}
	}
}

// TestSnippetAppliesTo covers page targeting, including the fail-open case
// when no current page is known.
func TestSnippetAppliesTo(t *testing.T) {
	tests := []struct {
		name    string
		pageIDs []string
		current string
		want    bool
	}{
		{name: "no targeting", pageIDs: nil, current: "p1", want: true},
		{name: "empty targeting", pageIDs: []string{}, current: "p1", want: true},
		{name: "targeted match", pageIDs: []string{"p1"}, current: "p1", want: true},
		{name: "targeted miss", pageIDs: []string{"p1"}, current: "p2", want: false},
		{name: "unknown page fails open", pageIDs: []string{"p1"}, current: "", want: true},
		{name: "one of many", pageIDs: []string{"p0", "p1", "p2"}, current: "p2", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &CodeSnippet{PageIDs: tt.pageIDs}
			if got := s.AppliesTo(tt.current); got != tt.want {
				t.Errorf("AppliesTo(%q) with %v = %v, want %v", tt.current, tt.pageIDs, got, tt.want)
			}
		})
	}
}

// TestPageIsPublished verifies that IsPublished returns true only for
// the "published" status.
func TestPageIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status PageStatus
		want   bool
	}{
		{name: "published", status: PageStatusPublished, want: true},
		{name: "draft", status: PageStatusDraft, want: false},
		{name: "inactive", status: PageStatusInactive, want: false},
		{name: "uppercase PUBLISHED", status: PageStatus("PUBLISHED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Page{Status: tt.status}
			if got := p.IsPublished(); got != tt.want {
				t.Errorf("Page{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
