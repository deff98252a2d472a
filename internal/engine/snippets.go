// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"regexp"
	"sort"
	"strings"

	"sitegen/internal/models"
)

// snippetKey identifies a snippet for override matching.
type snippetKey struct {
	name     string
	location models.SnippetLocation
}

func keyOf(s models.CodeSnippet) snippetKey {
	return snippetKey{name: s.Name, location: s.Location}
}

// MergeSnippets combines a template's snippets with a project's. A project
// snippet replaces the template snippet with the same name and location,
// keeping the template snippet's position; unmatched project snippets are
// appended in order. Neither input slice is modified.
func MergeSnippets(templateSnippets, projectSnippets []models.CodeSnippet) []models.CodeSnippet {
	merged := make([]models.CodeSnippet, len(templateSnippets), len(templateSnippets)+len(projectSnippets))
	copy(merged, templateSnippets)

	overrides := make(map[snippetKey]int, len(merged))
	for i, s := range merged {
		if _, seen := overrides[keyOf(s)]; !seen {
			overrides[keyOf(s)] = i
		}
	}

	for _, s := range projectSnippets {
		if i, ok := overrides[keyOf(s)]; ok {
			merged[i] = s
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// SnippetGroups holds the applicable snippets for each injection point,
// ordered by OrderIndex.
type SnippetGroups map[models.SnippetLocation][]models.CodeSnippet

// Empty reports whether no location has any snippet.
func (g SnippetGroups) Empty() bool {
	for _, list := range g {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

// code joins the snippet code for one location.
func (g SnippetGroups) code(loc models.SnippetLocation) string {
	list := g[loc]
	codes := make([]string, len(list))
	for i, s := range list {
		codes[i] = s.Code
	}
	return strings.Join(codes, "\n")
}

// FilterSnippets keeps enabled snippets that target the current page and
// groups them by location. Sorting within a group is stable, so snippets
// sharing an OrderIndex keep their merged order.
func FilterSnippets(snippets []models.CodeSnippet, currentPageID string) SnippetGroups {
	groups := make(SnippetGroups)
	for _, s := range snippets {
		if !s.IsEnabled || !s.Location.Valid() || !s.AppliesTo(currentPageID) {
			continue
		}
		groups[s.Location] = append(groups[s.Location], s)
	}
	for _, list := range groups {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].OrderIndex < list[j].OrderIndex
		})
	}
	return groups
}

var (
	headOpenRe  = regexp.MustCompile(`(?i)<head(?:\s[^>]*)?>`)
	headCloseRe = regexp.MustCompile(`(?i)</head\s*>`)
	bodyOpenRe  = regexp.MustCompile(`(?i)<body(?:\s[^>]*)?>`)
	bodyCloseRe = regexp.MustCompile(`(?i)</body\s*>`)
)

// InjectSnippets inserts each group's code at its boundary: after the
// opening <head>, before </head>, after the opening <body ...> (its
// attributes untouched) and before </body>. The first matching tag is
// used. Empty groups and missing tags leave the document unchanged.
func InjectSnippets(doc string, groups SnippetGroups) string {
	if len(groups[models.SnippetHeadStart]) > 0 {
		doc = insertAfter(doc, headOpenRe, groups.code(models.SnippetHeadStart))
	}
	if len(groups[models.SnippetHeadEnd]) > 0 {
		doc = insertBefore(doc, headCloseRe, groups.code(models.SnippetHeadEnd))
	}
	if len(groups[models.SnippetBodyStart]) > 0 {
		doc = insertAfter(doc, bodyOpenRe, groups.code(models.SnippetBodyStart))
	}
	if len(groups[models.SnippetBodyEnd]) > 0 {
		doc = insertBefore(doc, bodyCloseRe, groups.code(models.SnippetBodyEnd))
	}
	return doc
}

// insertAfter places "\n"+code right after the first match of re.
func insertAfter(doc string, re *regexp.Regexp, code string) string {
	loc := re.FindStringIndex(doc)
	if loc == nil {
		return doc
	}
	return doc[:loc[1]] + "\n" + code + doc[loc[1]:]
}

// insertBefore places code+"\n" right before the first match of re.
func insertBefore(doc string, re *regexp.Regexp, code string) string {
	loc := re.FindStringIndex(doc)
	if loc == nil {
		return doc
	}
	return doc[:loc[0]] + code + "\n" + doc[loc[0]:]
}
