// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives DNS-safe labels for generated site hostnames.
package slug

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// MaxLabelLength is the longest single DNS label.
const MaxLabelLength = 63

// fallbackLabel is used when a business name has no usable characters.
const fallbackLabel = "site"

var (
	// invalidChars matches anything that isn't a letter, digit, whitespace or hyphen.
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separators collapses runs of whitespace and hyphens into one hyphen.
	separators = regexp.MustCompile(`[\s-]+`)
)

// Generate lowercases s and reduces it to [a-z0-9-].
// Example: "Acme Clinic, Inc." → "acme-clinic-inc"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = invalidChars.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Hostname builds a generated hostname label of the form <slug>-<suffix>,
// e.g. Hostname("Acme Clinic", 4821) returns "acme-clinic-4821". The slug
// is shortened so the label stays within MaxLabelLength.
func Hostname(name string, suffix int) string {
	base := Generate(name)
	if base == "" {
		base = fallbackLabel
	}
	tail := "-" + strconv.Itoa(suffix)
	if len(base)+len(tail) > MaxLabelLength {
		base = strings.TrimRight(base[:MaxLabelLength-len(tail)], "-")
	}
	return base + tail
}

// RandomSuffix returns a four-digit hostname suffix.
func RandomSuffix() int {
	return 1000 + rand.IntN(9000)
}
