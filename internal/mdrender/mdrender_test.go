package mdrender

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/filingsight/internal/pageref"
)

const report = "## Business Overview\n\n" +
	"**Business Offerings**\n" +
	"- Data & Page Reference: Three segments [Page 4][Page 5]\n" +
	"- Explanation: Sells software and services.\n\n" +
	"## Financials\n\n" +
	"| Metric | Value |\n|---|---|\n| Revenue | $12B [Page 41-43] |\n\n" +
	"Debt maturities are listed in [Page 60, 62].\n"

func TestRender_Citations(t *testing.T) {
	r := New()
	res, err := r.Render(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Citation{
		{Raw: "Page 4", Pages: []int{4}},
		{Raw: "Page 5", Pages: []int{5}},
		{Raw: "Page 41-43", Pages: []int{41, 42, 43}},
		{Raw: "Page 60, 62", Pages: []int{60, 62}},
	}
	if !reflect.DeepEqual(res.Citations, want) {
		t.Errorf("expected citations %v, got %v", want, res.Citations)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := doc.Find("button.page-ref").Length(); n != 7 {
		t.Errorf("expected 7 page buttons, got %d", n)
	}
	if n := doc.Find("table td button.page-ref").Length(); n != 3 {
		t.Errorf("expected 3 buttons inside the table, got %d", n)
	}
	if n := doc.Find("h2").Length(); n != 2 {
		t.Errorf("expected 2 headings, got %d", n)
	}
}

func TestRender_NavigateFunc(t *testing.T) {
	r := New(pageref.WithNavigateFunc("pdfViewer.goToPage"))
	res, err := r.Render("See [Page 3].")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.HTML, `onclick="pdfViewer.goToPage(3)"`) {
		t.Errorf("expected custom onclick, got %s", res.HTML)
	}
}

func TestRender_NoCitations(t *testing.T) {
	res, err := New().Render("Plain text about Page 5.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Citations == nil || len(res.Citations) != 0 {
		t.Errorf("expected empty non-nil citations, got %v", res.Citations)
	}
	if strings.Contains(res.HTML, "button") {
		t.Errorf("expected no buttons, got %s", res.HTML)
	}
}

func TestRender_RawHTMLOmitted(t *testing.T) {
	res, err := New().Render("<script>alert(1)</script>\n\nText [Page 1]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(res.HTML, "<script>") {
		t.Errorf("expected raw html to be omitted, got %s", res.HTML)
	}
}

func TestRender_UnresolvableCitationRendersNothing(t *testing.T) {
	r := New()
	// An inverted range passes the scanner but resolves to no pages.
	res, err := r.Render("Inverted [Page 9-2] range.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Citations) != 1 || len(res.Citations[0].Pages) != 0 {
		t.Fatalf("expected one citation with no pages, got %v", res.Citations)
	}
	if strings.Contains(res.HTML, "page-refs") {
		t.Errorf("expected no markup for an empty reference, got %s", res.HTML)
	}
	if !strings.Contains(res.HTML, "Inverted ") || !strings.Contains(res.HTML, " range.") {
		t.Errorf("expected surrounding text, got %s", res.HTML)
	}
}

func TestScan(t *testing.T) {
	got := New().Scan("a [Page 1] b `[Page 2]` c [Page 3-4]")
	want := []Citation{
		{Raw: "Page 1", Pages: []int{1}},
		{Raw: "Page 3-4", Pages: []int{3, 4}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  # Title\n", "# Title"},
		{"```markdown\n# Title\n```", "# Title"},
		{"```\n# Title\n```", "# Title"},
		{"```md\ntext [Page 1]\n```\n", "text [Page 1]"},
		{"```json\n{}\n```", "```json\n{}\n```"},
		{"```", "```"},
	}
	for _, tt := range tests {
		if got := CleanMarkdown(tt.in); got != tt.want {
			t.Errorf("CleanMarkdown(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
