package parser

import (
	"io"

	"github.com/dgallion1/filingsight/internal/document"
)

// TextParser handles plain text files. Form feeds separate pages, as in
// pdftotext output; without them the file is a single page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return &document.Document{Title: trimExt(filename, ".txt")}, nil
	}
	return document.FromPages(trimExt(filename, ".txt"), splitPages(string(data))), nil
}
