package analysis

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/dgallion1/filingsight/internal/document"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Template is the instruction block for one analysis mode.
type Template struct {
	Instructions     string `yaml:"instructions"`
	ResponseMIMEType string `yaml:"response_mime_type"`
}

var (
	templatesOnce sync.Once
	templates     map[Mode]Template
	templatesErr  error
)

// TemplateFor returns the embedded prompt template for mode.
func TemplateFor(mode Mode) (Template, error) {
	templatesOnce.Do(func() {
		templatesErr = yaml.Unmarshal(promptsYAML, &templates)
	})
	if templatesErr != nil {
		return Template{}, fmt.Errorf("load prompt templates: %w", templatesErr)
	}
	t, ok := templates[mode]
	if !ok {
		return Template{}, fmt.Errorf("no prompt template for mode %q", mode)
	}
	return t, nil
}

// Prompt is a built prompt and how much of the document it carries.
type Prompt struct {
	Text      string
	Pages     int // pages included
	Truncated bool
}

// BuildPrompt creates the full prompt for analysing doc in the given mode.
// When maxTokens is positive, pages past the budget are left out and the
// prompt notes where the document was cut. The first page is always kept.
func BuildPrompt(mode Mode, doc *document.Document, maxTokens int) (*Prompt, error) {
	tmpl, err := TemplateFor(mode)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(tmpl.Instructions))
	sb.WriteString("\n\n---\n")
	if doc.Title != "" {
		sb.WriteString(fmt.Sprintf("Document: %q\n", doc.Title))
	}
	sb.WriteString("---\n")

	used := EstimateTokens(sb.String())
	included := 0
	for i, p := range doc.Pages {
		page := document.PageMarker(p.Number)
		if t := strings.TrimSpace(p.Text); t != "" {
			page += "\n" + t
		}
		cost := EstimateTokens(page)
		if maxTokens > 0 && included > 0 && used+cost > maxTokens {
			break
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(page)
		used += cost
		included++
	}

	truncated := included < doc.PageCount()
	if truncated {
		sb.WriteString(fmt.Sprintf("\n\n[Document truncated after page %d of %d. Do not cite pages that are not shown.]",
			doc.Pages[included-1].Number, doc.PageCount()))
	}
	return &Prompt{Text: sb.String(), Pages: included, Truncated: truncated}, nil
}

// BuildInstructions returns the instructions alone, for requests that attach
// the source file instead of its extracted text.
func BuildInstructions(mode Mode, title string) (string, error) {
	tmpl, err := TemplateFor(mode)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(tmpl.Instructions))
	if title != "" {
		sb.WriteString(fmt.Sprintf("\n\n---\nDocument: %q (attached). Page numbers are the PDF page numbers.\n", title))
	}
	return sb.String(), nil
}
