package locator

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// fixedSelectors are high-confidence main-content selectors, tried in
// priority order before any scoring. The first match with enough text
// wins outright.
var fixedSelectors = []cascadia.Selector{
	cascadia.MustCompile("article[role=main]"),
	cascadia.MustCompile("main article"),
	cascadia.MustCompile("article.content"),
	cascadia.MustCompile(".entry-content"),
	cascadia.MustCompile(".post-content"),
	cascadia.MustCompile("#content"),
	cascadia.MustCompile("main"),
	cascadia.MustCompile("[role=main]"),
}

// Class and id patterns separating article content from page chrome.
var (
	reContentClass     = regexp.MustCompile(`(?i)content|article|body|main|post|text|story|entry`)
	reBoilerplateClass = regexp.MustCompile(`(?i)sidebar|widget|comment|ad|social|share|related|popup|modal|banner`)
)

// candidate captures the signals the scorer reads from one element.
type candidate struct {
	sel        *goquery.Selection
	tag        string
	classID    string
	textLen    int
	anchorLen  int
	paragraphs int
	headings   int
	depth      int
}

// newCandidate measures an element once so every rule works from the
// same numbers. Depth counts ancestors below <body>.
func newCandidate(sel *goquery.Selection) *candidate {
	anchorLen := 0
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		anchorLen += len(normalizeText(a.Text()))
	})
	class, _ := sel.Attr("class")
	id, _ := sel.Attr("id")
	return &candidate{
		sel:        sel,
		tag:        goquery.NodeName(sel),
		classID:    strings.ToLower(class + " " + id),
		textLen:    len(normalizeText(sel.Text())),
		anchorLen:  anchorLen,
		paragraphs: sel.Find("p").Length(),
		headings:   sel.Find("h1,h2,h3,h4,h5,h6").Length(),
		depth:      sel.ParentsUntil("body").Length(),
	}
}

// scoreRule is one signal in the candidate scorer. Rules are evaluated
// uniformly and summed, so each signal can be tuned and tested on its
// own.
type scoreRule struct {
	name   string
	points func(c *candidate) float64
}

var scoreRules = []scoreRule{
	{"semantic content tag", func(c *candidate) float64 {
		switch c.tag {
		case "article", "main", "section":
			return 25
		}
		return 0
	}},
	{"paragraphs and headings", func(c *candidate) float64 {
		return 5 * float64(c.paragraphs+c.headings)
	}},
	{"content class or id", func(c *candidate) float64 {
		if reContentClass.MatchString(c.classID) {
			return 15
		}
		return 0
	}},
	{"chrome tag", func(c *candidate) float64 {
		switch c.tag {
		case "nav", "footer", "aside", "header", "menu":
			return -30
		}
		return 0
	}},
	{"boilerplate class or id", func(c *candidate) float64 {
		if reBoilerplateClass.MatchString(c.classID) {
			return -20
		}
		return 0
	}},
	{"nesting depth", func(c *candidate) float64 {
		return -2 * float64(c.depth)
	}},
	{"own text over link text", func(c *candidate) float64 {
		if c.textLen > 100 && float64(c.textLen-c.anchorLen)/float64(c.textLen) > 0.5 {
			return 10
		}
		return 0
	}},
}

// scoreCandidate sums every rule's contribution.
func scoreCandidate(c *candidate) float64 {
	score := 0.0
	for _, r := range scoreRules {
		score += r.points(c)
	}
	return score
}

// locate picks the main content element of a parsed document. The fixed
// selectors run first; if none matches with text longer than minChars,
// every div/section/article with at least minChars of text and minParas
// paragraph descendants is scored, highest wins, ties going to the
// earlier element in document order. The <body> itself is the final
// fallback, so location never fails.
func locate(doc *goquery.Document, minChars, minParas int) *goquery.Selection {
	for _, m := range fixedSelectors {
		found := doc.FindMatcher(m).First()
		if found.Length() == 0 {
			continue
		}
		if len(normalizeText(found.Text())) > minChars {
			return found
		}
	}

	var (
		best      *candidate
		bestScore float64
	)
	doc.Find("div, section, article").Each(func(_ int, sel *goquery.Selection) {
		c := newCandidate(sel)
		if c.textLen < minChars || c.paragraphs < minParas {
			return
		}
		if s := scoreCandidate(c); best == nil || s > bestScore {
			best = c
			bestScore = s
		}
	})
	if best != nil {
		return best.sel
	}
	return doc.Find("body").First()
}
