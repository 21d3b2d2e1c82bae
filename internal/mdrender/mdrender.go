package mdrender

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/filingsight/internal/pageref"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Citation is one page reference found in a rendered report.
type Citation struct {
	Raw   string `json:"raw" yaml:"raw"`
	Pages []int  `json:"pages" yaml:"pages"`
}

// Result is a rendered report.
type Result struct {
	HTML      string     `json:"html"`
	Citations []Citation `json:"citations"`
}

// Renderer converts model markdown into HTML with page buttons.
// It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a renderer. Options are passed to the page reference extension.
func New(opts ...pageref.Option) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			pageref.New(opts...),
		),
	)
	return &Renderer{md: md}
}

// Render cleans, parses and renders markdown.
func (r *Renderer) Render(markdown string) (*Result, error) {
	src := []byte(CleanMarkdown(markdown))
	doc := r.md.Parser().Parse(text.NewReader(src))
	citations := citationsOf(doc)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return &Result{HTML: buf.String(), Citations: citations}, nil
}

// Scan returns the citations of markdown without rendering it.
func (r *Renderer) Scan(markdown string) []Citation {
	src := []byte(CleanMarkdown(markdown))
	return citationsOf(r.md.Parser().Parse(text.NewReader(src)))
}

func citationsOf(doc ast.Node) []Citation {
	citations := []Citation{}
	for _, ref := range pageref.Collect(doc) {
		pages := ref.Pages()
		if pages == nil {
			pages = []int{}
		}
		citations = append(citations, Citation{Raw: ref.RawValue, Pages: pages})
	}
	return citations
}

// CleanMarkdown strips conversational wrapping the model sometimes adds: an outer
// code fence and surrounding whitespace.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		inner := strings.TrimSuffix(cleaned, "```")
		// Drop the info string ("markdown", "md") on the opening fence line.
		if i := strings.IndexByte(inner, '\n'); i >= 0 {
			info := strings.TrimSpace(inner[3:i])
			if info == "" || strings.EqualFold(info, "markdown") || strings.EqualFold(info, "md") {
				return strings.TrimSpace(inner[i+1:])
			}
		}
	}
	return cleaned
}
