package locator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresRendering(t *testing.T) {
	manyScripts := strings.Repeat(`<script src="/chunk.js"></script>`, 11)

	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			"article with plenty of text",
			`<html><body><article><p>` + longPara + `</p></article></body></html>`,
			false,
		},
		{
			"nearly empty body",
			`<html><body><p>Loading...</p></body></html>`,
			true,
		},
		{
			"empty SPA root despite other text",
			`<html><body><div id="root"></div><footer>` + longPara + `</footer></body></html>`,
			true,
		},
		{
			"server-rendered root is fine",
			`<html><body><div id="root"><div class="page">` + longPara + `</div></div></body></html>`,
			false,
		},
		{
			"noscript javascript warning",
			`<html><body><p>` + longPara + `</p><noscript>Please enable JavaScript to continue.</noscript></body></html>`,
			true,
		},
		{
			"script heavy with thin text",
			`<html><head>` + manyScripts + `</head><body><p>` + longPara + `</p></body></html>`,
			true,
		},
		{
			"script heavy but text rich",
			`<html><head>` + manyScripts + `</head><body><p>` + longPara + longPara + `</p></body></html>`,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiresRendering([]byte(tt.html)))
		})
	}
}

func TestVisibleBodyText(t *testing.T) {
	html := `<html><head><title>Ignored</title><style>p{color:red}</style></head>
		<body><script>var hidden = 1;</script><p>Visible one</p><noscript>skip</noscript><p>Visible two</p></body></html>`

	got := visibleBodyText([]byte(html))
	assert.Contains(t, got, "Visible one")
	assert.Contains(t, got, "Visible two")
	assert.NotContains(t, got, "Ignored")
	assert.NotContains(t, got, "hidden")
	assert.NotContains(t, got, "skip")
	assert.NotContains(t, got, "color")
}
