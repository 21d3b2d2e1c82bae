package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_FlattensBlocks(t *testing.T) {
	input := `# Annual Report

Intro text.

## Risk Factors

- Competition
- Regulation

` + "```\ncode line\n```\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Annual Report" {
		t.Errorf("expected title %q, got %q", "Annual Report", doc.Title)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("expected 1 page, got %d", doc.PageCount())
	}

	text := doc.Pages[0].Text
	for _, want := range []string{"Intro text.", "Risk Factors", "Competition\nRegulation", "code line"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected page text to contain %q, got %q", want, text)
		}
	}
	if strings.Count(text, "Intro text.") != 1 {
		t.Errorf("expected paragraph text once, got %q", text)
	}
}

func TestMarkdownParser_TitleFromFilename(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("Just a paragraph."), "notes.markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
}

func TestMarkdownParser_Empty(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.IsEmpty() || doc.PageCount() != 0 {
		t.Errorf("expected empty document, got %d pages", doc.PageCount())
	}
}
