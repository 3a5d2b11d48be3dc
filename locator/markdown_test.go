package locator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usesift/sift/models"
)

func TestAssembleMarkdown(t *testing.T) {
	t.Run("full document keeps the fixed block order", func(t *testing.T) {
		meta := models.Metadata{
			Title:       "Rate Decision",
			Description: "Central bank holds steady.",
			Author:      "Jane Doe",
			Published:   "2025-03-01",
		}
		got := assembleMarkdown(meta, []string{"Context", "Outlook"}, "Body paragraph.\n",
			[]models.Link{{Href: "https://other.org/a", Text: "Source A"}}, 15)

		want := "# Rate Decision\n\n" +
			"*Central bank holds steady.*\n\n" +
			"> Jane Doe · 2025-03-01\n\n" +
			"---\n\n" +
			"**Contents**\n\n- Context\n- Outlook\n\n" +
			"---\n\n" +
			"Body paragraph.\n\n" +
			"---\n\n" +
			"- [Source A](https://other.org/a)"
		assert.Equal(t, want, got)
	})

	t.Run("empty blocks are omitted entirely", func(t *testing.T) {
		got := assembleMarkdown(models.Metadata{}, nil, "Only the body.", nil, 15)
		assert.Equal(t, "Only the body.", got)
		assert.NotContains(t, got, "---")
	})

	t.Run("title only head", func(t *testing.T) {
		got := assembleMarkdown(models.Metadata{Title: "T"}, nil, "B", nil, 15)
		assert.Equal(t, "# T\n\n---\n\nB", got)
	})
}

func TestBylineOf(t *testing.T) {
	tests := []struct {
		name string
		meta models.Metadata
		want string
	}{
		{"author and date", models.Metadata{Author: "A", Published: "2025-01-02"}, "A · 2025-01-02"},
		{"author only", models.Metadata{Author: "A"}, "A"},
		{"date only", models.Metadata{Published: "2025-01-02"}, "2025-01-02"},
		{"neither", models.Metadata{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bylineOf(tt.meta))
		})
	}
}

func TestContentsList(t *testing.T) {
	t.Run("no headings means no list", func(t *testing.T) {
		assert.Empty(t, contentsList(nil))
	})

	t.Run("too many headings means no list", func(t *testing.T) {
		many := make([]string, 16)
		for i := range many {
			many[i] = fmt.Sprintf("h%d", i)
		}
		assert.Empty(t, contentsList(many))
	})

	t.Run("fifteen headings list the first ten", func(t *testing.T) {
		headings := make([]string, 15)
		for i := range headings {
			headings[i] = fmt.Sprintf("Section %d", i)
		}
		got := contentsList(headings)
		assert.Equal(t, 10, strings.Count(got, "\n- "))
		assert.Contains(t, got, "Section 9")
		assert.NotContains(t, got, "Section 10")
	})
}

func TestLinksList(t *testing.T) {
	t.Run("renders items and falls back to href", func(t *testing.T) {
		got := linksList([]models.Link{
			{Href: "https://a.org/x", Text: "Article X"},
			{Href: "https://b.org/y"},
		}, 15)
		assert.Equal(t, "- [Article X](https://a.org/x)\n- [https://b.org/y](https://b.org/y)", got)
	})

	t.Run("caps at maxLinks", func(t *testing.T) {
		links := make([]models.Link, 20)
		for i := range links {
			links[i] = models.Link{Href: fmt.Sprintf("https://a.org/%d", i)}
		}
		got := linksList(links, 15)
		require.NotEmpty(t, got)
		assert.Equal(t, 15, strings.Count(got, "\n")+1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, linksList(nil, 15))
	})
}
