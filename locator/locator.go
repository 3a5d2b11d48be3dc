// Package locator isolates the main content of an HTML page. It scores
// DOM subtrees with structural and textual heuristics to find the
// article body, extracts metadata, headings, links and images, and
// shapes the result as markdown, plain text or HTML. Extraction is a
// pure function of the input bytes: it performs no I/O, never fails, and
// degrades to the whole <body> when nothing better qualifies.
package locator

import (
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/usesift/sift/config"
	"github.com/usesift/sift/models"
)

// Extract modes.
const (
	ModeHeuristic   = "heuristic"
	ModeReadability = "readability"
	ModeAuto        = "auto"
	ModeRaw         = "raw"
)

// Output formats.
const (
	FormatMarkdown  = "markdown"
	FormatHTML      = "html"
	FormatText      = "text"
	FormatCitations = "markdown_citations"
)

// Options control one extraction.
type Options struct {
	// OnlyMainContent, when false, treats the whole <body> as content
	// and strips only script/style. ModeRaw implies the same.
	OnlyMainContent bool

	// ExtractMode selects the location strategy; empty means
	// ModeHeuristic.
	ExtractMode string

	// OutputFormat selects the Content field's format; empty means
	// FormatMarkdown.
	OutputFormat string
}

// Document is the extracted content of one page. It is derived
// deterministically from the input HTML and holds no reference to it;
// identical input yields an identical Document.
type Document struct {
	Metadata models.Metadata
	Headings []string

	// MainText is the normalized text of the located content, capped at
	// the configured body length. WordCount counts its tokens.
	MainText  string
	WordCount int

	// ContentHTML is the located content subtree after noise filtering.
	ContentHTML string

	// Markdown is the assembled markdown document.
	Markdown string

	// Content is the body in the requested output format.
	Content string

	Links  models.LinksResult
	Images []models.Image
	OG     models.OGMetadata
	Tokens models.TokenInfo

	// RequiresRendering flags pages that appear to need client-side
	// JavaScript to produce their content.
	RequiresRendering bool
}

// Locator runs extractions. The markdown converter is created once and
// shared; a Locator is safe for concurrent use.
type Locator struct {
	cfg         config.LocatorConfig
	mdConverter *converter.Converter
}

// New creates a Locator. Zero config fields fall back to the defaults
// from config.Load.
func New(cfg config.LocatorConfig) *Locator {
	if cfg.MaxBodyChars <= 0 {
		cfg.MaxBodyChars = 12000
	}
	if cfg.MaxLinks <= 0 {
		cfg.MaxLinks = 30
	}
	if cfg.MaxMarkdownLinks <= 0 {
		cfg.MaxMarkdownLinks = 15
	}
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = 20
	}
	if cfg.MinCandidateChars <= 0 {
		cfg.MinCandidateChars = 200
	}
	if cfg.MinCandidateParagraphs <= 0 {
		cfg.MinCandidateParagraphs = 2
	}
	return &Locator{
		cfg:         cfg,
		mdConverter: newMarkdownConverter(),
	}
}

// Extract locates the main content of rawHTML and shapes the result.
// Malformed or empty HTML yields a Document with empty fields and
// WordCount 0, never an error.
func (l *Locator) Extract(rawHTML, sourceURL string, opts Options) *Document {
	doc := &Document{
		Metadata: models.Metadata{SourceURL: sourceURL},
		Links:    models.LinksResult{Internal: []models.Link{}, External: []models.Link{}},
		Images:   []models.Image{},
	}
	if strings.TrimSpace(rawHTML) == "" {
		return doc
	}

	mode := opts.ExtractMode
	if mode == "" {
		mode = ModeHeuristic
	}
	raw := mode == ModeRaw || !opts.OnlyMainContent

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// The HTML5 parser is error-tolerant; failing here means no DOM
		// could be built at all.
		slog.Warn("locator: unparsable input", "url", sourceURL, "error", err)
		return doc
	}

	og, siteName := extractOG(rawHTML)
	doc.OG = og
	doc.Metadata = extractMetadata(parsed, og, siteName, sourceURL)
	doc.RequiresRendering = RequiresRendering([]byte(rawHTML))

	root := l.contentRoot(parsed, rawHTML, sourceURL, mode, raw)
	if root == nil {
		return doc
	}

	filtered := filteredClone(root, raw)
	content := goquery.NewDocumentFromNode(filtered)

	doc.MainText = truncateText(textOf(filtered), l.cfg.MaxBodyChars)
	doc.WordCount = countWords(doc.MainText)
	doc.Metadata.WordCount = doc.WordCount
	doc.ContentHTML = renderHTML(filtered)
	doc.Headings = extractHeadings(content)
	doc.Links = extractLinks(content, sourceURL, l.cfg.MaxLinks)
	doc.Images = extractImages(content, sourceURL, l.cfg.MaxImages)

	body, err := toMarkdown(l.mdConverter, doc.ContentHTML, sourceURL)
	if err != nil {
		slog.Warn("locator: markdown conversion failed, using plain text",
			"url", sourceURL, "error", err)
		body = doc.MainText
	}
	body = truncateText(body, l.cfg.MaxBodyChars)
	doc.Markdown = assembleMarkdown(doc.Metadata, doc.Headings, body, doc.Links.External, l.cfg.MaxMarkdownLinks)

	switch opts.OutputFormat {
	case FormatHTML:
		doc.Content = doc.ContentHTML
	case FormatText:
		doc.Content = doc.MainText
	case FormatCitations:
		doc.Content = citationStyle(doc.Markdown)
	default:
		doc.Content = doc.Markdown
	}

	doc.Tokens = tokenInfo(rawHTML, doc.Content)
	return doc
}

// contentRoot picks the content subtree for the requested mode. It
// returns a node from a parse of the page (or of the readability
// output), never nil for non-empty parseable input.
func (l *Locator) contentRoot(parsed *goquery.Document, rawHTML, sourceURL, mode string, raw bool) *html.Node {
	if raw {
		return nodeOf(parsed.Find("body").First())
	}

	switch mode {
	case ModeReadability:
		if content, ok := readabilityContent(rawHTML, sourceURL); ok {
			if n := parseBody(content); n != nil {
				return n
			}
		}
		return nodeOf(locate(parsed, l.cfg.MinCandidateChars, l.cfg.MinCandidateParagraphs))

	case ModeAuto:
		// Run the heuristic locator and readability concurrently, then
		// keep whichever found more text.
		var (
			wg        sync.WaitGroup
			heuristic *html.Node
			readable  *html.Node
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			heuristic = nodeOf(locate(parsed, l.cfg.MinCandidateChars, l.cfg.MinCandidateParagraphs))
		}()
		go func() {
			defer wg.Done()
			if content, ok := readabilityContent(rawHTML, sourceURL); ok {
				readable = parseBody(content)
			}
		}()
		wg.Wait()
		return pickLarger(heuristic, readable, l.cfg.MinCandidateChars)

	default:
		return nodeOf(locate(parsed, l.cfg.MinCandidateChars, l.cfg.MinCandidateParagraphs))
	}
}

// pickLarger chooses between the heuristic and readability subtrees by
// filtered text size. When the longer result is more than 10x the
// shorter and the shorter is still substantial, the longer one usually
// swallowed page chrome, so the shorter wins.
func pickLarger(heuristic, readable *html.Node, minChars int) *html.Node {
	if readable == nil {
		return heuristic
	}
	if heuristic == nil {
		return readable
	}

	hLen := len(textOf(filteredClone(heuristic, false)))
	rLen := len(textOf(readable))

	useHeuristic := hLen >= rLen
	if useHeuristic && rLen > minChars && hLen > 10*rLen {
		useHeuristic = false
	} else if !useHeuristic && hLen > minChars && rLen > 10*hLen {
		useHeuristic = true
	}

	if useHeuristic {
		return heuristic
	}
	return readable
}

// nodeOf unwraps the first node of a selection.
func nodeOf(sel *goquery.Selection) *html.Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

// parseBody parses an HTML fragment and returns its <body> node.
func parseBody(fragment string) *html.Node {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	return nodeOf(d.Find("body").First())
}

// tokenInfo estimates the token savings from extraction.
func tokenInfo(rawHTML, content string) models.TokenInfo {
	original := EstimateTokens(rawHTML)
	extracted := EstimateTokens(content)
	savings := 0.0
	if original > 0 {
		savings = float64(original-extracted) / float64(original) * 100
		savings = math.Round(savings*100) / 100
	}
	return models.TokenInfo{
		OriginalEstimate:  original,
		ExtractedEstimate: extracted,
		SavingsPercent:    savings,
	}
}
