package slug

import (
	"regexp"
	"strings"
)

const maxLength = 50

var (
	nonWord   = regexp.MustCompile(`[^\w\s-]`)
	separator = regexp.MustCompile(`[-\s]+`)
)

// Make converts free text into a URL-safe slug: lower-cased, special
// characters stripped, runs of whitespace and hyphens collapsed to a single
// hyphen, trimmed and capped at 50 characters.
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonWord.ReplaceAllString(s, "")
	s = separator.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLength {
		s = strings.Trim(s[:maxLength], "-")
	}
	return s
}
