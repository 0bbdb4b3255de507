package util

import (
	"regexp"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify lowercases s and collapses everything except letters, digits and
// dashes into single dashes.
func Slugify(s string) string {
	slug := slugInvalid.ReplaceAllString(strings.TrimSpace(s), "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.ToLower(strings.Trim(slug, "-"))
}
