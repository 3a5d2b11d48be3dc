package locator

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usesift/sift/config"
)

var articlePage = `<html lang="en">
<head>
<title>Tab Title</title>
<meta name="description" content="A market wrap.">
<meta name="author" content="Jane Doe">
</head>
<body>
<nav class="top-nav"><a href="/home">Home</a> <a href="/markets">Markets</a></nav>
<article class="content">
<h1>Markets Close Higher</h1>
<p>` + longPara + `</p>
<p>` + longPara + `</p>
<!-- tracking pixel -->
<div class="social-share">Share this story</div>
<aside>Related stories</aside>
<a href="https://stats.gov.sa/report">Official report</a>
<a href="/markets/archive">Archive</a>
</article>
<footer>All rights reserved.</footer>
<script>var tracker = 1;</script>
</body>
</html>`

const pageURL = "https://example.com/news/today"

func newTestLocator() *Locator {
	return New(config.LocatorConfig{})
}

func TestExtractArticle(t *testing.T) {
	doc := newTestLocator().Extract(articlePage, pageURL, Options{OnlyMainContent: true})

	t.Run("locates the article and drops chrome", func(t *testing.T) {
		assert.Contains(t, doc.MainText, "Markets Close Higher")
		assert.Contains(t, doc.MainText, "Quarterly results")
		assert.NotContains(t, doc.MainText, "Home")
		assert.NotContains(t, doc.MainText, "All rights reserved")
		assert.NotContains(t, doc.MainText, "Share this story")
		assert.NotContains(t, doc.MainText, "Related stories")
		assert.NotContains(t, doc.MainText, "var tracker")
	})

	t.Run("content html is the filtered subtree", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(doc.ContentHTML, "<article"), "got %q", doc.ContentHTML[:40])
		assert.Contains(t, doc.ContentHTML, "<h1>")
		assert.NotContains(t, doc.ContentHTML, "social-share")
		assert.NotContains(t, doc.ContentHTML, "<aside")
		assert.NotContains(t, doc.ContentHTML, "tracking pixel")
		assert.NotContains(t, doc.ContentHTML, "<script")
	})

	t.Run("metadata comes from the whole page", func(t *testing.T) {
		assert.Equal(t, "Markets Close Higher", doc.Metadata.Title)
		assert.Equal(t, "A market wrap.", doc.Metadata.Description)
		assert.Equal(t, "Jane Doe", doc.Metadata.Author)
		assert.Equal(t, "en", doc.Metadata.Language)
		assert.Equal(t, pageURL, doc.Metadata.SourceURL)
	})

	t.Run("word count covers the extracted text", func(t *testing.T) {
		assert.Equal(t, countWords(doc.MainText), doc.WordCount)
		assert.Equal(t, doc.WordCount, doc.Metadata.WordCount)
		assert.Greater(t, doc.WordCount, 20)
	})

	t.Run("links come from the content only", func(t *testing.T) {
		require.Len(t, doc.Links.External, 1)
		assert.Equal(t, "https://stats.gov.sa/report", doc.Links.External[0].Href)
		require.Len(t, doc.Links.Internal, 1)
		assert.Equal(t, "https://example.com/markets/archive", doc.Links.Internal[0].Href)
	})

	t.Run("headings in document order", func(t *testing.T) {
		assert.Equal(t, []string{"Markets Close Higher"}, doc.Headings)
	})

	t.Run("markdown assembles title description and links", func(t *testing.T) {
		assert.Contains(t, doc.Markdown, "# Markets Close Higher")
		assert.Contains(t, doc.Markdown, "*A market wrap.*")
		assert.Contains(t, doc.Markdown, "> Jane Doe")
		assert.Contains(t, doc.Markdown, "**Contents**")
		assert.Contains(t, doc.Markdown, "- [Official report](https://stats.gov.sa/report)")
		assert.Contains(t, doc.Markdown, "\n\n---\n\n")
	})

	t.Run("default output format is markdown", func(t *testing.T) {
		assert.Equal(t, doc.Markdown, doc.Content)
	})

	t.Run("token estimates reflect the reduction", func(t *testing.T) {
		assert.Greater(t, doc.Tokens.OriginalEstimate, 0)
		assert.Greater(t, doc.Tokens.ExtractedEstimate, 0)
		assert.Less(t, doc.Tokens.ExtractedEstimate, doc.Tokens.OriginalEstimate)
		assert.Greater(t, doc.Tokens.SavingsPercent, 0.0)
	})

	t.Run("static article does not require rendering", func(t *testing.T) {
		assert.False(t, doc.RequiresRendering)
	})
}

func TestExtractOutputFormats(t *testing.T) {
	l := newTestLocator()

	html := l.Extract(articlePage, pageURL, Options{OnlyMainContent: true, OutputFormat: FormatHTML})
	assert.Equal(t, html.ContentHTML, html.Content)

	text := l.Extract(articlePage, pageURL, Options{OnlyMainContent: true, OutputFormat: FormatText})
	assert.Equal(t, text.MainText, text.Content)

	md := l.Extract(articlePage, pageURL, Options{OnlyMainContent: true, OutputFormat: FormatMarkdown})
	assert.Equal(t, md.Markdown, md.Content)
}

func TestExtractRawMode(t *testing.T) {
	l := newTestLocator()

	raw := l.Extract(articlePage, pageURL, Options{OnlyMainContent: true, ExtractMode: ModeRaw})

	t.Run("keeps chrome but not scripts", func(t *testing.T) {
		assert.Contains(t, raw.MainText, "Home")
		assert.Contains(t, raw.MainText, "All rights reserved")
		assert.Contains(t, raw.MainText, "Markets Close Higher")
		assert.NotContains(t, raw.MainText, "var tracker")
		assert.True(t, strings.HasPrefix(raw.ContentHTML, "<body"))
	})

	t.Run("only_main_content false behaves like raw", func(t *testing.T) {
		full := l.Extract(articlePage, pageURL, Options{OnlyMainContent: false, ExtractMode: ModeHeuristic})
		assert.Equal(t, raw.MainText, full.MainText)
		assert.Equal(t, raw.ContentHTML, full.ContentHTML)
	})
}

func TestExtractFallbackModes(t *testing.T) {
	const thinPage = `<html><body><p>Tiny.</p></body></html>`
	l := newTestLocator()

	heuristic := l.Extract(thinPage, pageURL, Options{OnlyMainContent: true, ExtractMode: ModeHeuristic})
	assert.Equal(t, "Tiny.", heuristic.MainText, "body fallback when nothing qualifies")

	t.Run("auto falls back to the heuristic result", func(t *testing.T) {
		auto := l.Extract(thinPage, pageURL, Options{OnlyMainContent: true, ExtractMode: ModeAuto})
		assert.Equal(t, heuristic.MainText, auto.MainText)
	})

	t.Run("readability falls back when it finds too little", func(t *testing.T) {
		read := l.Extract(thinPage, pageURL, Options{OnlyMainContent: true, ExtractMode: ModeReadability})
		assert.Equal(t, heuristic.MainText, read.MainText)
	})
}

func TestExtractEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n\t "} {
		doc := newTestLocator().Extract(in, pageURL, Options{OnlyMainContent: true})

		assert.Empty(t, doc.MainText)
		assert.Zero(t, doc.WordCount)
		assert.Empty(t, doc.Markdown)
		assert.NotNil(t, doc.Links.Internal)
		assert.NotNil(t, doc.Links.External)
		assert.NotNil(t, doc.Images)
		assert.Equal(t, pageURL, doc.Metadata.SourceURL)
	}
}

func TestExtractBodyCap(t *testing.T) {
	l := New(config.LocatorConfig{MaxBodyChars: 50})
	doc := l.Extract(articlePage, pageURL, Options{OnlyMainContent: true, OutputFormat: FormatText})

	assert.LessOrEqual(t, utf8.RuneCountInString(doc.MainText), 50)
	assert.Equal(t, doc.MainText, doc.Content)
	assert.Equal(t, countWords(doc.MainText), doc.WordCount)
}

func TestExtractDeterministic(t *testing.T) {
	l := newTestLocator()
	first := l.Extract(articlePage, pageURL, Options{OnlyMainContent: true})
	second := l.Extract(articlePage, pageURL, Options{OnlyMainContent: true})
	assert.Equal(t, first, second)
}

func TestExtractSelectorPriorityEndToEnd(t *testing.T) {
	page := `<html><body>
		<div id="content"><p>` + longPara + `</p><p>` + longPara + `</p><span>GENERIC-MARKER</span></div>
		<div class="entry-content"><p>` + longPara + `</p><p>` + longPara + `</p><span>ENTRY-MARKER</span></div>
	</body></html>`

	doc := newTestLocator().Extract(page, pageURL, Options{OnlyMainContent: true})
	assert.Contains(t, doc.MainText, "ENTRY-MARKER")
	assert.NotContains(t, doc.MainText, "GENERIC-MARKER")
}
