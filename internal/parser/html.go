package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/filingsight/internal/document"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Text is gathered from content blocks and
// split into pages at CSS page breaks.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := trimExt(filename, ".html", ".htm")
	if t := findTitle(doc); t != "" {
		title = t
	}

	// EDGAR filings mark printed page boundaries with CSS page breaks.
	pages := [][]string{nil}
	add := func(t string) {
		if t != "" {
			pages[len(pages)-1] = append(pages[len(pages)-1], t)
		}
	}
	breakPage := func() {
		if len(pages[len(pages)-1]) > 0 {
			pages = append(pages, nil)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			before, after := pageBreaks(n)
			if before {
				breakPage()
			}
			if after {
				defer breakPage()
			}

			if headingLevel(n.Data) > 0 {
				add(textContent(n))
				return
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "th", "blockquote", "pre":
				add(textContent(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	if len(pages[len(pages)-1]) == 0 {
		pages = pages[:len(pages)-1]
	}
	if len(pages) == 0 {
		return &document.Document{Title: title}, nil
	}
	texts := make([]string, len(pages))
	for i, blocks := range pages {
		texts[i] = strings.Join(blocks, "\n\n")
	}
	return document.FromPages(title, texts), nil
}

// pageBreaks reports CSS page breaks declared before and after an element.
func pageBreaks(n *html.Node) (before, after bool) {
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		style := strings.ToLower(strings.ReplaceAll(a.Val, " ", ""))
		before = strings.Contains(style, "page-break-before:always") || strings.Contains(style, "break-before:page")
		after = strings.Contains(style, "page-break-after:always") || strings.Contains(style, "break-after:page")
	}
	return before, after
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
