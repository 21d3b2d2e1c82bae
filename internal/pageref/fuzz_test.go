package pageref

import (
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// FuzzResolve checks that Resolve never panics and only yields positive pages.
// Run with: go test -fuzz=FuzzResolve -fuzztime=30s ./internal/pageref/...
func FuzzResolve(f *testing.F) {
	seeds := []string{
		"Page 7",
		"Page 2-5",
		"Page 1, 5, 7",
		"Page 2-3, 9",
		"Page abc, 4",
		"Pages 10 – 12",
		"Page 1, Page 2",
		"Page 5-2",
		"Page 0",
		"Page -3",
		"Page 1-99999999999999999999",
		",,,",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		for _, p := range Resolve(raw) {
			if p < 1 {
				t.Fatalf("Resolve(%q) produced page %d", raw, p)
			}
		}
	})
}

// FuzzScan checks that scanning parsed markdown never panics and is idempotent.
func FuzzScan(f *testing.F) {
	seeds := []string{
		"See [Page 7] for detail.",
		"[Page 1][Page 2][Page 5]",
		"* item [Page 2-3, 9]\n* `[Page 4]`",
		"[Page 1](http://example.com) [Page\n2]",
		"| a | b |\n|---|---|\n| [Page 3] | x |",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	md := goldmark.New()

	f.Fuzz(func(t *testing.T, src string) {
		source := []byte(src)
		doc := md.Parser().Parse(text.NewReader(source))
		Scan(doc, source)
		if n := Scan(doc, source); n != 0 {
			t.Fatalf("second scan of %q created %d references", src, n)
		}
	})
}
