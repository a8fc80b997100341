// Package render turns assessments into the human-facing artifacts the
// pipeline ships: the HTML alert email and the markdown report.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// markdown mirrors the plan formatting the models produce: tables, footnotes,
// definition lists, and single newlines kept as line breaks. Raw HTML in
// model output is dropped.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Footnote,
		extension.DefinitionList,
		extension.Strikethrough,
	),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// MarkdownToHTML renders a markdown fragment to HTML.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// PlainText extracts the text content of an HTML document or fragment,
// skipping style and script bodies.
func PlainText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "style" || n.Data == "script") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.TrimSpace(b.String()), nil
}
