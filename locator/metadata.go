package locator

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"

	"github.com/usesift/sift/models"
)

var (
	reAuthorClass  = regexp.MustCompile(`(?i)author`)
	rePublishClass = regexp.MustCompile(`(?i)date|publish`)
)

// extractOG parses Open Graph tags from the raw HTML. The second return
// value is the og:site_name, which lives in Metadata rather than the OG
// block.
func extractOG(rawHTML string) (models.OGMetadata, string) {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(rawHTML)); err != nil {
		return models.OGMetadata{}, ""
	}
	out := models.OGMetadata{
		Title:       og.Title,
		Description: og.Description,
		Type:        og.Type,
	}
	if len(og.Images) > 0 && og.Images[0] != nil {
		out.Image = og.Images[0].URL
	}
	return out, og.SiteName
}

// extractMetadata reads page-level metadata from the whole document,
// independent of main-content selection, so a poor location still yields
// a usable title. Each field follows a fixed priority chain.
func extractMetadata(doc *goquery.Document, og models.OGMetadata, siteName, sourceURL string) models.Metadata {
	meta := models.Metadata{SourceURL: sourceURL, SiteName: siteName}

	// Title: og:title, then the first <h1>, then <title>.
	meta.Title = strings.TrimSpace(og.Title)
	if meta.Title == "" {
		meta.Title = normalizeText(doc.Find("h1").First().Text())
	}
	if meta.Title == "" {
		meta.Title = normalizeText(doc.Find("title").First().Text())
	}

	// Description: og:description, then meta[name=description].
	meta.Description = strings.TrimSpace(og.Description)
	if meta.Description == "" {
		meta.Description = metaContent(doc, `meta[name="description"]`)
	}

	// Author: meta tag, then rel=author, then an author-classed element.
	meta.Author = metaContent(doc, `meta[name="author"]`)
	if meta.Author == "" {
		meta.Author = normalizeText(doc.Find(`[rel="author"]`).First().Text())
	}
	if meta.Author == "" {
		meta.Author = firstTextByClass(doc, reAuthorClass)
	}

	// Publish date: article:published_time, then <time datetime>, then a
	// date-classed element. The value is passed through unparsed.
	meta.Published = metaContent(doc, `meta[property="article:published_time"]`)
	if meta.Published == "" {
		if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
			meta.Published = strings.TrimSpace(v)
		}
	}
	if meta.Published == "" {
		meta.Published = firstTextByClass(doc, rePublishClass)
	}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		meta.Language = strings.TrimSpace(lang)
	}
	return meta
}

// metaContent returns the content attribute of the first element matched
// by selector.
func metaContent(doc *goquery.Document, selector string) string {
	if v, ok := doc.Find(selector).First().Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// firstTextByClass returns the text of the first element whose class
// attribute matches re.
func firstTextByClass(doc *goquery.Document, re *regexp.Regexp) string {
	var out string
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if re.MatchString(class) {
			out = normalizeText(s.Text())
			return false
		}
		return true
	})
	return out
}
