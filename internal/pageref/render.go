package pageref

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Navigator is the document viewer's "scroll to page" capability.
type Navigator interface {
	NavigateToPage(page int)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(page int)

// NavigateToPage implements Navigator.
func (f NavigatorFunc) NavigateToPage(page int) {
	if f != nil {
		f(page)
	}
}

// Control is one page button produced for a reference.
type Control struct {
	Page  int
	Label string

	nav Navigator
}

// Activate navigates to the control's page. Each call navigates once.
func (c Control) Activate() {
	if c.nav != nil {
		c.nav.NavigateToPage(c.Page)
	}
}

// Controls returns one control per resolved page of ref, in citation order.
// A reference that resolves to no pages yields no controls.
func Controls(ref *PageReference, nav Navigator) []Control {
	if ref == nil {
		return nil
	}
	pages := ref.Pages()
	if len(pages) == 0 {
		return nil
	}
	out := make([]Control, 0, len(pages))
	for _, p := range pages {
		out = append(out, Control{Page: p, Label: pageLabel(p), nav: nav})
	}
	return out
}

func pageLabel(p int) string {
	return "Page " + strconv.Itoa(p)
}

// DefaultNavigateFunc is the JavaScript function page buttons call on click.
const DefaultNavigateFunc = "goToPage"

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// ValidNavigateFunc reports whether name can be emitted into an onclick handler.
func ValidNavigateFunc(name string) bool {
	return jsIdentifier.MatchString(name)
}

// Config controls how references are rendered to HTML.
type Config struct {
	// NavigateFunc is the JavaScript function called with the page number.
	// Empty or invalid names emit data-page attributes only.
	NavigateFunc string
	// ButtonClass and WrapperClass are the CSS classes of the generated markup.
	ButtonClass  string
	WrapperClass string
}

// DefaultConfig returns the rendering defaults.
func DefaultConfig() Config {
	return Config{
		NavigateFunc: DefaultNavigateFunc,
		ButtonClass:  "page-ref",
		WrapperClass: "page-refs",
	}
}

// Option configures the extension.
type Option func(*Config)

// WithNavigateFunc sets the JavaScript navigation function name.
func WithNavigateFunc(name string) Option {
	return func(c *Config) {
		c.NavigateFunc = name
	}
}

// WithClasses sets the CSS classes of the button and its wrapper.
func WithClasses(button, wrapper string) Option {
	return func(c *Config) {
		if button != "" {
			c.ButtonClass = button
		}
		if wrapper != "" {
			c.WrapperClass = wrapper
		}
	}
}

// HTMLRenderer renders PageReference nodes as page buttons.
type HTMLRenderer struct {
	cfg Config
}

// NewHTMLRenderer returns a renderer for PageReference nodes.
func NewHTMLRenderer(opts ...Option) *HTMLRenderer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !ValidNavigateFunc(cfg.NavigateFunc) {
		cfg.NavigateFunc = ""
	}
	return &HTMLRenderer{cfg: cfg}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindPageReference, r.renderPageReference)
}

func (r *HTMLRenderer) renderPageReference(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	ref, ok := node.(*PageReference)
	if !ok {
		return ast.WalkSkipChildren, nil
	}
	controls := Controls(ref, nil)
	if len(controls) == 0 {
		return ast.WalkSkipChildren, nil
	}

	fmt.Fprintf(w, `<span class="%s" data-ref="%s">`, escape(r.cfg.WrapperClass), escape(ref.RawValue))
	for _, c := range controls {
		fmt.Fprintf(w, `<button type="button" class="%s" data-page="%d"`, escape(r.cfg.ButtonClass), c.Page)
		if r.cfg.NavigateFunc != "" {
			fmt.Fprintf(w, ` onclick="%s(%d)"`, r.cfg.NavigateFunc, c.Page)
		}
		fmt.Fprintf(w, `>%s</button>`, escape(c.Label))
	}
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

func escape(s string) []byte {
	return util.EscapeHTML([]byte(s))
}

// Extension wires the scanner and the HTML renderer into goldmark.
type Extension struct {
	opts []Option
}

// New returns the page reference extension.
func New(opts ...Option) *Extension {
	return &Extension{opts: opts}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&Transformer{}, 999),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewHTMLRenderer(e.opts...), 500),
	))
}
