package bundle

import (
	"bytes"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// documentTitle extracts the first heading from Markdown content for the
// human-readable index. Falls back to the filename stem when the document
// has no headings (or isn't Markdown at all).
func documentTitle(relPath string, source []byte) string {
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))

	ext := strings.ToLower(path.Ext(base))
	if ext != ".md" && ext != ".mdx" {
		return stem
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	title := ""
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			title = extractText(heading, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	title = strings.TrimSpace(title)
	if title == "" {
		return stem
	}
	return title
}

// extractText collects the raw text segments directly under a node.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if text, ok := c.(*ast.Text); ok {
			buf.Write(text.Segment.Value(source))
		}
	}
	return buf.String()
}
