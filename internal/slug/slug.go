// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package slug derives URL-safe identifiers from post titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// stripped matches anything that isn't a lowercase letter, digit,
	// whitespace, or hyphen.
	stripped = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separators collapses runs of whitespace and hyphens into one hyphen.
	separators = regexp.MustCompile(`[\s-]+`)
)

// Generate normalizes a title into a slug: lowercased, punctuation
// removed, word separators collapsed to single hyphens.
// "Hello, World! 2026" becomes "hello-world-2026".
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = stripped.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
