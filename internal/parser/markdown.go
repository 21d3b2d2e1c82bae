package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/filingsight/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Markdown has no pages,
// so the whole file becomes page 1.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	title := trimExt(filename, ".md", ".markdown")
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && len(blocks) == 0 {
			title = extractText(n, src)
		}
		if t := extractText(n, src); t != "" {
			blocks = append(blocks, t)
		}
	}

	if len(blocks) == 0 {
		return &document.Document{Title: title}, nil
	}
	return document.FromPages(title, []string{strings.Join(blocks, "\n\n")}), nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	// Code blocks carry their text in lines and have no inline children.
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			s := extractText(c, src)
			if c.Type() == ast.TypeBlock {
				if buf.Len() > 0 && s != "" {
					buf.WriteByte('\n')
				}
			}
			buf.WriteString(s)
		}
	}
	return strings.TrimSpace(buf.String())
}
