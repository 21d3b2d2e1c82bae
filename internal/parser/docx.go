package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/filingsight/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Explicit page breaks split pages.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	title := trimExt(filename, ".docx")
	pages := []string{""}
	appendText := func(t string) {
		if t == "" {
			return
		}
		cur := &pages[len(pages)-1]
		if *cur != "" {
			*cur += "\n\n"
		}
		*cur += t
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		segments := docxParagraphSegments(para)
		if docxHeadingLevel(para) == 1 && title == trimExt(filename, ".docx") {
			if t := strings.TrimSpace(strings.Join(segments, " ")); t != "" {
				title = t
			}
		}
		for i, seg := range segments {
			if i > 0 {
				pages = append(pages, "")
			}
			appendText(strings.TrimSpace(seg))
		}
	}

	if len(pages) == 1 && pages[0] == "" {
		return &document.Document{Title: title}, nil
	}
	return document.FromPages(title, pages), nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	switch {
	case strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1"):
		return 1
	case strings.EqualFold(style, "Heading2") || strings.EqualFold(style, "heading 2"):
		return 2
	case strings.EqualFold(style, "Heading3") || strings.EqualFold(style, "heading 3"):
		return 3
	case strings.EqualFold(style, "Heading4") || strings.EqualFold(style, "heading 4"):
		return 4
	case strings.EqualFold(style, "Heading5") || strings.EqualFold(style, "heading 5"):
		return 5
	case strings.EqualFold(style, "Heading6") || strings.EqualFold(style, "heading 6"):
		return 6
	}
	return 0
}

// docxParagraphSegments returns the paragraph text split at page breaks.
func docxParagraphSegments(para *docx.Paragraph) []string {
	segments := []string{""}
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch c := rc.(type) {
			case *docx.Text:
				segments[len(segments)-1] += c.Text
			case *docx.BarterRabbet:
				if c.Type == "page" {
					segments = append(segments, "")
				}
			}
		}
	}
	return segments
}
