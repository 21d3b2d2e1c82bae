package document

import (
	"fmt"
	"strings"
)

// Document is an uploaded filing split into the pages of its source file.
type Document struct {
	Title string // Document title (from metadata or filename)
	Pages []Page // Pages in source order
}

// Page is the text of one source page. Number matches the page the viewer shows.
type Page struct {
	Number int
	Text   string
}

// PageCount returns the number of pages, including empty ones.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Text joins the non-empty pages with blank lines.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		t := strings.TrimSpace(p.Text)
		if t == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(t)
	}
	return sb.String()
}

// PageMarker is the separator written before each page in prompt text.
func PageMarker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

// PromptText renders the pages with explicit page markers so the model can cite
// page numbers that match the viewer. Empty pages keep their marker.
func (d *Document) PromptText() string {
	var sb strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(PageMarker(p.Number))
		if t := strings.TrimSpace(p.Text); t != "" {
			sb.WriteString("\n")
			sb.WriteString(t)
		}
	}
	return sb.String()
}

// FromPages builds a document from raw page texts numbered from 1.
func FromPages(title string, pages []string) *Document {
	doc := &Document{Title: title}
	for i, text := range pages {
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Text: text})
	}
	return doc
}

// IsEmpty reports whether no page has any text.
func (d *Document) IsEmpty() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}
