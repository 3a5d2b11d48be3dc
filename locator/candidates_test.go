package locator

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// longPara is comfortably above the candidate text minimum.
var longPara = strings.Repeat("Quarterly results beat analyst expectations across the board. ", 5)

func mustParse(t *testing.T, rawHTML string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	require.NoError(t, err)
	return doc
}

func TestLocateFixedSelectors(t *testing.T) {
	t.Run("entry-content outranks #content", func(t *testing.T) {
		doc := mustParse(t, `<html><body>
			<div id="content"><p>`+longPara+`</p><p>`+longPara+`</p></div>
			<div class="entry-content"><p>`+longPara+`</p><p>`+longPara+`</p></div>
		</body></html>`)

		located := locate(doc, 200, 2)
		assert.Equal(t, "entry-content", located.AttrOr("class", ""))
	})

	t.Run("article[role=main] outranks main", func(t *testing.T) {
		doc := mustParse(t, `<html><body>
			<main><p>`+longPara+`</p><p>`+longPara+`</p></main>
			<article role="main"><p>`+longPara+`</p><p>`+longPara+`</p></article>
		</body></html>`)

		located := locate(doc, 200, 2)
		assert.Equal(t, "article", goquery.NodeName(located))
		assert.Equal(t, "main", located.AttrOr("role", ""))
	})

	t.Run("thin fixed match falls through to scoring", func(t *testing.T) {
		doc := mustParse(t, `<html><body>
			<main>Just a teaser.</main>
			<div id="story" class="story-body"><p>`+longPara+`</p><p>`+longPara+`</p></div>
		</body></html>`)

		located := locate(doc, 200, 2)
		assert.Equal(t, "story", located.AttrOr("id", ""))
	})
}

func TestLocateScoring(t *testing.T) {
	t.Run("semantic article beats boilerplate div", func(t *testing.T) {
		doc := mustParse(t, `<html><body>
			<div class="sidebar"><p>`+longPara+`</p><p>`+longPara+`</p></div>
			<article><p>`+longPara+`</p><p>`+longPara+`</p></article>
		</body></html>`)

		located := locate(doc, 200, 2)
		assert.Equal(t, "article", goquery.NodeName(located))
	})

	t.Run("tie keeps first in document order", func(t *testing.T) {
		doc := mustParse(t, `<html><body>
			<div id="first"><p>`+longPara+`</p><p>`+longPara+`</p></div>
			<div id="second"><p>`+longPara+`</p><p>`+longPara+`</p></div>
		</body></html>`)

		located := locate(doc, 200, 2)
		assert.Equal(t, "first", located.AttrOr("id", ""))
	})

	t.Run("single-paragraph element is rejected", func(t *testing.T) {
		doc := mustParse(t, `<html><body>
			<div id="wall"><p>`+longPara+longPara+`</p></div>
			<div id="proper"><p>`+longPara+`</p><p>`+longPara+`</p></div>
		</body></html>`)

		located := locate(doc, 200, 2)
		assert.Equal(t, "proper", located.AttrOr("id", ""))
	})

	t.Run("falls back to body when nothing qualifies", func(t *testing.T) {
		doc := mustParse(t, `<html><body>
			<div><p>Too short.</p><p>Still short.</p></div>
		</body></html>`)

		located := locate(doc, 200, 2)
		assert.Equal(t, "body", goquery.NodeName(located))
	})
}

func TestNewCandidateMeasures(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="outer"><div id="target" class="Post-Body">
		<p>Alpha beta</p>
		<p>Gamma delta</p>
		<h2>Section</h2>
		<a href="/x">link text</a>
	</div></div></body></html>`)

	c := newCandidate(doc.Find("#target"))
	assert.Equal(t, "div", c.tag)
	assert.Equal(t, "post-body target", c.classID)
	assert.Equal(t, 2, c.paragraphs)
	assert.Equal(t, 1, c.headings)
	assert.Equal(t, 1, c.depth, "depth counts ancestors below body")
	assert.Equal(t, len("link text"), c.anchorLen)
	assert.Greater(t, c.textLen, c.anchorLen)
}

func TestScoreCandidate(t *testing.T) {
	tests := []struct {
		name string
		c    candidate
		want float64
	}{
		{"semantic tag bonus", candidate{tag: "article"}, 25},
		{"paragraphs and headings", candidate{tag: "div", paragraphs: 3, headings: 1}, 20},
		{"content class bonus", candidate{tag: "div", classID: "post-body"}, 15},
		{"chrome tag penalty", candidate{tag: "nav"}, -30},
		{"boilerplate class penalty", candidate{tag: "div", classID: "sidebar"}, -20},
		{"depth penalty", candidate{tag: "div", depth: 4}, -8},
		{"text-heavy bonus", candidate{tag: "div", textLen: 200, anchorLen: 0}, 10},
		{"link-heavy gets no text bonus", candidate{tag: "div", textLen: 200, anchorLen: 150}, 0},
		{"short text gets no text bonus", candidate{tag: "div", textLen: 90, anchorLen: 0}, 0},
		{
			"signals combine",
			candidate{tag: "article", classID: "post-content", paragraphs: 4, textLen: 500, anchorLen: 20, depth: 2},
			25 + 20 + 15 - 4 + 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreCandidate(&tt.c))
		})
	}
}
