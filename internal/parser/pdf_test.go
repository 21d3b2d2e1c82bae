package parser

import (
	"strings"
	"testing"
)

func TestPDFParser_Malformed(t *testing.T) {
	p := &PDFParser{}
	if _, err := p.Parse(strings.NewReader("%PDF-1.4 garbage"), "bad.pdf"); err == nil {
		t.Error("expected error for malformed pdf")
	}
}

func TestCountPDFPages_Invalid(t *testing.T) {
	if _, err := CountPDFPages([]byte("not a pdf")); err == nil {
		t.Error("expected error for non-pdf data")
	}
}

func TestBlank(t *testing.T) {
	if !blank([]string{"", " \n"}) {
		t.Error("expected whitespace pages to be blank")
	}
	if blank([]string{"", "text"}) {
		t.Error("expected page with text to be non-blank")
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"a.pdf", false},
		{"a.PDF", false},
		{"a.txt", false},
		{"a.md", false},
		{"a.htm", false},
		{"a.docx", false},
		{"a.csv", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.name, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
	}

	p, _ := ForFile("x.pdf", Options{PDFFallbackPdftotext: true})
	if pp, ok := p.(*PDFParser); !ok || !pp.FallbackPdftotext {
		t.Errorf("expected pdf parser with fallback enabled, got %#v", p)
	}
}
