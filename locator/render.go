package locator

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var reNoscriptWarning = regexp.MustCompile(`<noscript[^>]*>[^<]*(enable|activate|turn on|requires?)\s+javascript`)

// RequiresRendering guesses whether a page builds its content with
// client-side JavaScript (SPA shell, heavy JS dependency, noscript
// warnings). The engine never renders such pages; the flag tells callers
// the extracted text may be incomplete so they can hand the URL to a
// rendering fallback.
func RequiresRendering(body []byte) bool {
	visible := visibleBodyText(body)

	// Very little visible text in <body> points at an SPA shell.
	if len(visible) < 200 {
		return true
	}

	lower := strings.ToLower(string(body))
	if hasEmptySPARoot(lower) {
		return true
	}
	if reNoscriptWarning.MatchString(lower) {
		return true
	}

	// Many <script> tags plus little body text means a JS-heavy page.
	if strings.Count(lower, "<script") > 10 && len(visible) < 500 {
		return true
	}
	return false
}

// hasEmptySPARoot looks for the mount points of the common SPA
// frameworks with nothing pre-rendered inside.
func hasEmptySPARoot(lower string) bool {
	if strings.Contains(lower, `<div id="root"></div>`) ||
		strings.Contains(lower, `<div id="app"></div>`) ||
		strings.Contains(lower, `<div id="__next"></div>`) {
		return true
	}
	// A bare #root with no element nested inside is a client-rendered
	// shell; SSR pages put content there immediately.
	return strings.Contains(lower, `<div id="root">`) &&
		!strings.Contains(lower, `<div id="root"><div`)
}

// visibleBodyText extracts the visible text from within <body> with the
// streaming tokenizer, stripping tags and script/style/noscript content.
// Used for heuristic analysis only.
func visibleBodyText(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	var buf strings.Builder
	inBody := false
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "body" {
				inBody = true
			}
			if tag == "script" || tag == "style" || tag == "noscript" {
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "script" || tag == "style" || tag == "noscript" {
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if inBody && skipDepth == 0 {
				text := strings.TrimSpace(string(tokenizer.Text()))
				if text != "" {
					buf.WriteString(text)
					buf.WriteByte(' ')
				}
			}
		}
	}
}
