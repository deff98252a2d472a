// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HiddenAttr marks an element as excluded from rendering when its value
// is "true". Editors toggle it on components (including alloro-tpl
// wrappers) instead of deleting them.
const HiddenAttr = "data-alloro-hidden"

// IsHidden reports whether a fragment's root element, the first tag after
// any leading whitespace, carries the hidden marker. A hidden root hides
// the whole fragment, trailing siblings included.
func IsHidden(fragment string) bool {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.TextToken:
			if strings.TrimSpace(string(z.Raw())) == "" {
				continue
			}
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return tokenHidden(z)
		default:
			return false
		}
	}
}

// tokenHidden checks the attributes of the tokenizer's current tag.
func tokenHidden(z *html.Tokenizer) bool {
	_, hasAttr := z.TagName()
	return attrsHidden(z, hasAttr)
}

// attrsHidden reads the remaining attributes of the current tag. TagName
// must already have been called, with hasAttr its second result.
func attrsHidden(z *html.Tokenizer, hasAttr bool) bool {
	for more := hasAttr; more; {
		var key, val []byte
		key, val, more = z.TagAttr()
		if string(key) == HiddenAttr && string(val) == "true" {
			return true
		}
	}
	return false
}

// StripHidden removes every element carrying the hidden marker, along
// with its whole subtree, from an HTML fragment.
//
// The fragment is walked token by token and surviving tokens are copied
// through byte for byte, so markup is never reordered or re-encoded and
// no tag is dropped for appearing outside its usual parent (table rows,
// list items, blocks inside <p>). A hidden element ends at the end tag
// that balances it, counting nested elements of the same name, or at the
// end tag of an element it was opened inside, whichever comes first.
// Void and self-closing elements remove just their own tag.
func StripHidden(fragment string) string {
	if !strings.Contains(strings.ToLower(fragment), HiddenAttr) {
		return fragment
	}

	var (
		b     strings.Builder
		open  []string // names of surviving elements still open
		skip  string   // name of the hidden element being removed
		depth int      // nesting of skip inside itself
	)
	b.Grow(len(fragment))

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				slog.Warn("hidden element strip: tokenize failed, keeping fragment", "error", err)
				return fragment
			}
			return b.String()
		}

		// Raw must be copied before TagName, which lower-cases in place.
		raw := string(z.Raw())
		var (
			tag     string
			hasAttr bool
		)
		switch tt {
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, more := z.TagName()
			tag, hasAttr = string(name), more
		}

		if depth > 0 {
			switch {
			case tt == html.StartTagToken && tag == skip:
				depth++
				continue
			case tt == html.EndTagToken && tag == skip:
				depth--
				continue
			case tt == html.EndTagToken && isOpen(open, tag):
				depth = 0
			default:
				continue
			}
		}

		switch tt {
		case html.StartTagToken:
			hidden := attrsHidden(z, hasAttr)
			switch {
			case hidden && !isVoid(tag):
				skip, depth = tag, 1
			case hidden:
			default:
				b.WriteString(raw)
				if !isVoid(tag) {
					open = append(open, tag)
				}
			}

		case html.SelfClosingTagToken:
			if !attrsHidden(z, hasAttr) {
				b.WriteString(raw)
			}

		case html.EndTagToken:
			open = closeOpen(open, tag)
			b.WriteString(raw)

		default:
			b.WriteString(raw)
		}
	}
}

// isVoid reports whether tag never has content or an end tag.
func isVoid(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

func isOpen(open []string, tag string) bool {
	for _, name := range open {
		if name == tag {
			return true
		}
	}
	return false
}

// closeOpen pops open up to and including the innermost element named tag.
// Unmatched end tags leave it unchanged.
func closeOpen(open []string, tag string) []string {
	for i := len(open) - 1; i >= 0; i-- {
		if open[i] == tag {
			return open[:i]
		}
	}
	return open
}
