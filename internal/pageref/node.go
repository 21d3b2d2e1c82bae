// Package pageref turns "[Page N]" citations in model-generated markdown into
// page navigation controls.
//
// The package works on the goldmark AST. Scan rewrites text nodes so that every
// bracketed citation becomes a PageReference node; Resolve expands a citation into
// page numbers; Controls and the HTML NodeRenderer turn those pages into
// affordances that call a navigation function supplied by the document viewer.
package pageref

import (
	"github.com/yuin/goldmark/ast"
)

// KindPageReference is the node kind of PageReference.
var KindPageReference = ast.NewNodeKind("PageReference")

// PageReference is an inline node holding one recognized citation.
type PageReference struct {
	ast.BaseInline

	// RawValue is the text between the brackets, e.g. "Page 2-5".
	RawValue string
}

// NewPageReference returns a reference node for the given citation text.
func NewPageReference(raw string) *PageReference {
	return &PageReference{RawValue: raw}
}

// Kind implements ast.Node.
func (n *PageReference) Kind() ast.NodeKind {
	return KindPageReference
}

// Dump implements ast.Node.
func (n *PageReference) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"RawValue": n.RawValue,
	}, nil)
}

// Pages resolves the citation. It is recomputed on every call.
func (n *PageReference) Pages() []int {
	return Resolve(n.RawValue)
}

// Collect returns every PageReference under root in document order.
func Collect(root ast.Node) []*PageReference {
	var refs []*PageReference
	if root == nil {
		return refs
	}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if ref, ok := n.(*PageReference); ok {
			refs = append(refs, ref)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return refs
}
