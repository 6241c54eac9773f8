package util

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeWhitespace trims and collapses whitespace to single spaces.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Preview flattens s onto one line and truncates it for list rows.
func Preview(s string, max int) string {
	return Truncate(NormalizeWhitespace(s), max)
}

// ContainsAnyCaseInsensitive returns true if text contains any of the needles (case-insensitive).
// An empty needle list matches everything.
func ContainsAnyCaseInsensitive(text string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	lt := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lt, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
