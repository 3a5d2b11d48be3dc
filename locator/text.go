package locator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// normalizeText collapses whitespace runs to single spaces and trims.
func normalizeText(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// countWords counts whitespace-delimited tokens.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// truncateText cuts s to at most max runes, never splitting a rune.
func truncateText(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
