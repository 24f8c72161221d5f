// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from bilingual names
// and collision-free slug allocation against a store.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separators collapses runs of whitespace and hyphens into one hyphen.
	separators = regexp.MustCompile(`[\s-]+`)
)

// stripMarks builds a fresh decompose/strip/recompose chain. A transform.Chain
// keeps internal state and cannot be shared between goroutines.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Generate creates a URL-friendly slug from the given string. Vietnamese
// diacritics are removed and đ becomes d.
// Example: "Công Nghệ Thông Tin" → "cong-nghe-thong-tin"
func Generate(s string) string {
	result, _, err := transform.String(stripMarks(), s)
	if err != nil {
		result = s
	}
	result = strings.NewReplacer("đ", "d", "Đ", "d").Replace(result)
	result = strings.ToLower(strings.TrimSpace(result))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
