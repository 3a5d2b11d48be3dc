package locator

import (
	"fmt"
	"regexp"
	"strings"
)

// mdInlineLink matches markdown inline links: [text](target).
var mdInlineLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// citationStyle rewrites inline markdown links as numbered reference
// citations and appends the reference list:
//
//	input:  "see [SAMA](https://sama.gov.sa)"
//	output: "see [SAMA][1]\n\n---\n[1]: https://sama.gov.sa"
//
// Repeated targets share one number. Text without links passes through
// unchanged.
func citationStyle(markdown string) string {
	numbers := make(map[string]int)
	var order []string

	out := mdInlineLink.ReplaceAllStringFunc(markdown, func(match string) string {
		m := mdInlineLink.FindStringSubmatch(match)
		if len(m) != 3 {
			return match
		}
		target := m[2]
		n, seen := numbers[target]
		if !seen {
			n = len(order) + 1
			numbers[target] = n
			order = append(order, target)
		}
		return fmt.Sprintf("[%s][%d]", m[1], n)
	})

	if len(order) == 0 {
		return markdown
	}

	var b strings.Builder
	b.WriteString(out)
	b.WriteString("\n\n---\n")
	for i, target := range order {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%d]: %s", i+1, target)
	}
	return b.String()
}
