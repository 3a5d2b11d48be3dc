package locator

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minReadableLength is the minimum TextContent length (in characters)
// for readability output to be trusted. Below this the algorithm failed
// to find the main content and the heuristic pass takes over.
const minReadableLength = 50

// readabilityContent runs the Mozilla Readability algorithm on rawHTML
// and returns the clean content HTML. ok is false when the algorithm
// errored or produced too little text; the caller falls back to the
// heuristic locator, never to an error.
func readabilityContent(rawHTML, sourceURL string) (string, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL",
			"url", sourceURL, "error", err,
		)
		return "", false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed",
			"url", sourceURL, "error", err,
		)
		return "", false
	}

	if len(strings.TrimSpace(article.TextContent)) < minReadableLength {
		slog.Warn("readability: extracted content too short",
			"url", sourceURL, "length", len(article.TextContent),
		)
		return "", false
	}

	return article.Content, true
}
