package locator

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/usesift/sift/models"
)

// newMarkdownConverter creates a reusable, goroutine-safe Converter
// configured for LLM-bound output:
//
//   - base plugin: strips script, style, iframe, noscript, head, meta,
//     link, input, textarea and HTML comments.
//   - commonmark plugin: standard Markdown rendering (headings, lists,
//     links, code blocks, emphasis, blockquotes, etc.).
//   - table plugin: preserves table structure with minimal cell padding
//     to save tokens.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// toMarkdown converts content HTML to Markdown. The domain resolves
// relative URLs in <a> and <img> tags so the output is self-contained.
func toMarkdown(conv *converter.Converter, htmlContent, domain string) (string, error) {
	return conv.ConvertString(htmlContent, converter.WithDomain(domain))
}

// assembleMarkdown builds the final document in a fixed order: title
// heading, italic description, byline blockquote, a contents list (only
// when the page has 1 to 15 headings), the body, then outbound links.
// Blocks are separated by horizontal rules and empty blocks are omitted.
func assembleMarkdown(meta models.Metadata, headings []string, body string, outbound []models.Link, maxLinks int) string {
	var head []string
	if meta.Title != "" {
		head = append(head, "# "+meta.Title)
	}
	if meta.Description != "" {
		head = append(head, "*"+meta.Description+"*")
	}
	if byline := bylineOf(meta); byline != "" {
		head = append(head, "> "+byline)
	}

	var blocks []string
	if len(head) > 0 {
		blocks = append(blocks, strings.Join(head, "\n\n"))
	}
	if contents := contentsList(headings); contents != "" {
		blocks = append(blocks, contents)
	}
	if body = strings.TrimSpace(body); body != "" {
		blocks = append(blocks, body)
	}
	if links := linksList(outbound, maxLinks); links != "" {
		blocks = append(blocks, links)
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

func bylineOf(meta models.Metadata) string {
	switch {
	case meta.Author != "" && meta.Published != "":
		return meta.Author + " · " + meta.Published
	case meta.Author != "":
		return meta.Author
	default:
		return meta.Published
	}
}

// contentsList renders up to 10 headings as a bullet list. Pages with no
// headings have nothing to list; pages with more than 15 are typically
// index or hub pages where the list is noise.
func contentsList(headings []string) string {
	if len(headings) < 1 || len(headings) > 15 {
		return ""
	}
	n := len(headings)
	if n > 10 {
		n = 10
	}
	var b strings.Builder
	b.WriteString("**Contents**\n")
	for _, h := range headings[:n] {
		b.WriteString("\n- ")
		b.WriteString(h)
	}
	return b.String()
}

// linksList renders up to maxLinks outbound links as markdown list
// items, falling back to the URL when a link has no text.
func linksList(links []models.Link, maxLinks int) string {
	if len(links) == 0 || maxLinks <= 0 {
		return ""
	}
	if len(links) > maxLinks {
		links = links[:maxLinks]
	}
	items := make([]string, 0, len(links))
	for _, l := range links {
		text := l.Text
		if text == "" {
			text = l.Href
		}
		items = append(items, "- ["+text+"]("+l.Href+")")
	}
	return strings.Join(items, "\n")
}
