package locator

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/usesift/sift/models"
)

// extractLinks separates content links into internal and external groups
// by host, resolving relative hrefs against the source URL. Links are
// deduplicated by absolute URL with last-seen-wins display text, and at
// most maxLinks distinct URLs are collected.
func extractLinks(content *goquery.Document, sourceURL string, maxLinks int) models.LinksResult {
	result := models.LinksResult{
		Internal: []models.Link{},
		External: []models.Link{},
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return result
	}

	type entry struct {
		link     *models.Link
		internal bool
	}
	seen := make(map[string]*models.Link)
	var order []entry

	content.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" {
			return
		}

		// Resolve relative URLs against the base.
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		// Skip javascript:, mailto:, tel: etc.
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		abs := resolved.String()
		text := normalizeText(s.Text())
		if existing, ok := seen[abs]; ok {
			existing.Text = text
			return
		}
		if len(seen) >= maxLinks {
			return
		}
		link := &models.Link{Href: abs, Text: text}
		seen[abs] = link
		order = append(order, entry{
			link:     link,
			internal: strings.EqualFold(resolved.Host, base.Host),
		})
	})

	for _, e := range order {
		if e.internal {
			result.Internal = append(result.Internal, *e.link)
		} else {
			result.External = append(result.External, *e.link)
		}
	}
	return result
}

// extractImages returns content images with absolute URLs, deduplicated
// by src and capped at maxImages.
func extractImages(content *goquery.Document, sourceURL string, maxImages int) []models.Image {
	images := []models.Image{}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return images
	}

	seen := make(map[string]struct{})
	content.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if src == "" {
			return true
		}
		resolved, err := base.Parse(src)
		if err != nil {
			return true
		}
		// Skip data URIs.
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		abs := resolved.String()
		if _, ok := seen[abs]; ok {
			return true
		}
		seen[abs] = struct{}{}

		alt, _ := s.Attr("alt")
		images = append(images, models.Image{
			Src: abs,
			Alt: strings.TrimSpace(alt),
		})
		return len(images) < maxImages
	})

	return images
}

// extractHeadings lists the content's heading texts in document order.
func extractHeadings(content *goquery.Document) []string {
	var out []string
	content.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, s *goquery.Selection) {
		if t := normalizeText(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
