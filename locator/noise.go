package locator

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// structuralNoiseTags never hold article text.
var structuralNoiseTags = map[string]struct{}{
	"noscript": {},
	"iframe":   {},
	"nav":      {},
	"footer":   {},
	"aside":    {},
}

// excluded reports whether a node is noise for the given mode. Raw mode
// keeps everything except script/style; main-content mode also drops
// structural chrome and boilerplate-classed subtrees.
func excluded(n *html.Node, raw bool) bool {
	if n.Type == html.CommentNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	if n.Data == "script" || n.Data == "style" {
		return true
	}
	if raw {
		return false
	}
	if _, ok := structuralNoiseTags[n.Data]; ok {
		return true
	}
	return reBoilerplateClass.MatchString(nodeClassID(n))
}

// filteredClone copies the subtree rooted at n, skipping excluded
// children. The source tree is left untouched, so selection and
// filtering can never interfere with each other.
func filteredClone(n *html.Node, raw bool) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      slices.Clone(n.Attr),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if excluded(c, raw) {
			continue
		}
		clone.AppendChild(filteredClone(c, raw))
	}
	return clone
}

// renderHTML serializes a node to HTML.
func renderHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// collectText accumulates the text of a subtree, separating text nodes
// with spaces; callers normalize the result.
func collectText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		buf.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}

// textOf returns the normalized text of a subtree.
func textOf(n *html.Node) string {
	var buf strings.Builder
	collectText(n, &buf)
	return normalizeText(buf.String())
}

// nodeClassID joins a node's class and id attribute values, lowercased.
func nodeClassID(n *html.Node) string {
	var class, id string
	for _, a := range n.Attr {
		switch a.Key {
		case "class":
			class = a.Val
		case "id":
			id = a.Val
		}
	}
	return strings.ToLower(class + " " + id)
}
