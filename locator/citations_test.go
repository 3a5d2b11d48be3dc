package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCitationStyle(t *testing.T) {
	t.Run("numbers links and appends references", func(t *testing.T) {
		in := "See [SAMA](https://sama.gov.sa) and [Argaam](https://argaam.com)."
		want := "See [SAMA][1] and [Argaam][2].\n\n---\n" +
			"[1]: https://sama.gov.sa\n" +
			"[2]: https://argaam.com"
		assert.Equal(t, want, citationStyle(in))
	})

	t.Run("repeated targets share a number", func(t *testing.T) {
		in := "[a](https://x.org) then [b](https://x.org)"
		got := citationStyle(in)
		assert.Contains(t, got, "[a][1]")
		assert.Contains(t, got, "[b][1]")
		assert.Contains(t, got, "[1]: https://x.org")
		assert.NotContains(t, got, "[2]:")
	})

	t.Run("text without links passes through", func(t *testing.T) {
		assert.Equal(t, "nothing to cite", citationStyle("nothing to cite"))
	})
}

func TestExtractCitationsFormat(t *testing.T) {
	page := `<html><head><title>Report</title></head><body><article>
<p>The regulator published consolidated figures for the quarter, citing
steady growth across most supervised sectors and a measured expansion of
credit to small businesses over the same period of review.</p>
<p>Details appear in the <a href="https://example.org/annex">annex</a>
released alongside the main report earlier this week, which breaks the
totals down by sector, region and institution size.</p>
</article></body></html>`

	l := newTestLocator()
	doc := l.Extract(page, "https://example.com/report", Options{
		OnlyMainContent: true,
		OutputFormat:    FormatCitations,
	})

	assert.Contains(t, doc.Content, "[annex][1]")
	assert.Contains(t, doc.Content, "[1]: https://example.org/annex")
	// The markdown field itself keeps inline links.
	assert.Contains(t, doc.Markdown, "](https://example.org/annex)")
}
