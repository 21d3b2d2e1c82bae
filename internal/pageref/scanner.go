package pageref

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// citationPattern matches one bracketed citation. Group 1 is the bracket interior
// without surrounding whitespace: [Page 7], [page 2-5], [Pages 1, 5, 7]. The
// interior only has to start with "Page" and hold a digit; Resolve drops the
// segments it cannot read.
var citationPattern = regexp.MustCompile(
	`\[\s*((?i:pages?)(?:\s[^\[\]\n]*?)?\d[^\[\]\n]*?)\s*\]`,
)

// FindCitations returns the interior of every citation in s, left to right.
func FindCitations(s string) []string {
	var out []string
	for _, m := range citationPattern.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}

// Scan rewrites the text under root so that every bracketed citation becomes a
// PageReference node. It returns the number of references created.
//
// Adjacent text siblings are scanned as one run because the markdown parser
// splits text around '[' and ']' while looking for links. A run ends at a line
// break, so a citation never spans two lines. Text that is not part of a
// citation keeps its original source segments.
func Scan(root ast.Node, source []byte) int {
	if root == nil {
		return 0
	}
	created := 0
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeSpan, ast.KindLink, ast.KindImage, ast.KindAutoLink, KindPageReference:
			return ast.WalkSkipChildren, nil
		}
		if n.HasChildren() {
			created += scanChildren(n, source)
		}
		return ast.WalkContinue, nil
	})
	return created
}

// replacement swaps a run of text siblings for a new list of nodes.
type replacement struct {
	old   []*ast.Text
	nodes []ast.Node
	refs  int
}

// scanChildren collects the replacements for every text run of parent first and
// splices them in afterwards, so the sibling list is never changed mid-iteration.
func scanChildren(parent ast.Node, source []byte) int {
	var (
		reps []replacement
		run  []*ast.Text
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		if rep, ok := rewriteRun(run, source); ok {
			reps = append(reps, rep)
		}
		run = nil
	}

	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok || !scannable(t, source) {
			flush()
			continue
		}
		run = append(run, t)
		if t.SoftLineBreak() || t.HardLineBreak() {
			flush()
		}
	}
	flush()

	created := 0
	for _, rep := range reps {
		anchor := rep.old[0]
		for _, n := range rep.nodes {
			parent.InsertBefore(parent, anchor, n)
		}
		for _, old := range rep.old {
			parent.RemoveChild(parent, old)
		}
		created += rep.refs
	}
	return created
}

// scannable reports whether t is plain source text that can be split safely.
func scannable(t *ast.Text, source []byte) bool {
	seg := t.Segment
	if t.IsRaw() || seg.Padding != 0 {
		return false
	}
	return seg.Start >= 0 && seg.Start <= seg.Stop && seg.Stop <= len(source)
}

func rewriteRun(run []*ast.Text, source []byte) (replacement, bool) {
	offsets := make([]int, len(run))
	var joined []byte
	for i, t := range run {
		offsets[i] = len(joined)
		joined = append(joined, source[t.Segment.Start:t.Segment.Stop]...)
	}

	matches := citationPattern.FindAllSubmatchIndex(joined, -1)
	if len(matches) == 0 {
		return replacement{}, false
	}

	rep := replacement{old: run}
	last := 0
	for _, m := range matches {
		rep.nodes = append(rep.nodes, sliceRun(run, offsets, last, m[0])...)
		rep.nodes = append(rep.nodes, NewPageReference(string(joined[m[2]:m[3]])))
		rep.refs++
		last = m[1]
	}
	tail := sliceRun(run, offsets, last, len(joined))
	rep.nodes = append(rep.nodes, tail...)

	// A citation that ends the line would swallow the line break of the last node.
	end := run[len(run)-1]
	if (end.SoftLineBreak() || end.HardLineBreak()) && !endsWithBreak(tail) {
		br := ast.NewTextSegment(text.NewSegment(end.Segment.Stop, end.Segment.Stop))
		br.SetSoftLineBreak(end.SoftLineBreak())
		br.SetHardLineBreak(end.HardLineBreak())
		rep.nodes = append(rep.nodes, br)
	}
	return rep, true
}

// sliceRun returns text nodes covering bytes [from, to) of the joined run, one per
// original node touched. A piece that reaches the end of its node inherits the
// node's line break flags.
func sliceRun(run []*ast.Text, offsets []int, from, to int) []ast.Node {
	if from >= to {
		return nil
	}
	var out []ast.Node
	for i, t := range run {
		lo := offsets[i]
		hi := lo + t.Segment.Stop - t.Segment.Start
		a, b := max(from, lo), min(to, hi)
		if a >= b {
			continue
		}
		piece := ast.NewTextSegment(text.NewSegment(t.Segment.Start+a-lo, t.Segment.Start+b-lo))
		if b == hi {
			piece.SetSoftLineBreak(t.SoftLineBreak())
			piece.SetHardLineBreak(t.HardLineBreak())
		}
		out = append(out, piece)
	}
	return out
}

func endsWithBreak(nodes []ast.Node) bool {
	if len(nodes) == 0 {
		return false
	}
	t, ok := nodes[len(nodes)-1].(*ast.Text)
	return ok && (t.SoftLineBreak() || t.HardLineBreak())
}

// Transformer runs Scan on every parsed document.
type Transformer struct{}

// Transform implements parser.ASTTransformer.
func (t *Transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	Scan(doc, reader.Source())
}
