package document

import (
	"testing"
)

func TestFromPages_Numbering(t *testing.T) {
	doc := FromPages("10-K", []string{"cover", "", "risk factors"})
	if doc.PageCount() != 3 {
		t.Fatalf("expected 3 pages, got %d", doc.PageCount())
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Errorf("page %d: expected number %d, got %d", i, i+1, p.Number)
		}
	}
}

func TestDocument_PromptTextKeepsEmptyPages(t *testing.T) {
	doc := FromPages("10-K", []string{"cover", "  ", "risk factors"})
	want := "--- Page 1 ---\ncover\n\n--- Page 2 ---\n\n--- Page 3 ---\nrisk factors"
	if got := doc.PromptText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDocument_Text(t *testing.T) {
	doc := FromPages("10-K", []string{" cover ", "", "risk factors"})
	if got := doc.Text(); got != "cover\n\nrisk factors" {
		t.Errorf("expected %q, got %q", "cover\n\nrisk factors", got)
	}
}

func TestDocument_IsEmpty(t *testing.T) {
	if !FromPages("x", []string{"", " \n"}).IsEmpty() {
		t.Error("expected whitespace-only document to be empty")
	}
	if FromPages("x", []string{"", "a"}).IsEmpty() {
		t.Error("expected document with text to be non-empty")
	}
	if !(&Document{}).IsEmpty() {
		t.Error("expected document without pages to be empty")
	}
}
