package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dgallion1/filingsight/internal/analysis"
	"github.com/dgallion1/filingsight/internal/document"
	"github.com/dgallion1/filingsight/internal/mdrender"
	"github.com/dgallion1/filingsight/internal/parser"
)

// Generator produces model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req analysis.Request) (string, error)
}

// WorkerOptions tunes job processing.
type WorkerOptions struct {
	MaxPromptTokens      int
	InlinePDF            bool
	PDFFallbackPdftotext bool
	MaxRetries           int
	Backoff              func(attempt int) time.Duration
	Model                string
}

// Worker processes a single analysis job.
type Worker struct {
	gen      Generator
	renderer *mdrender.Renderer
	log      *slog.Logger
	opts     WorkerOptions
}

func NewWorker(gen Generator, renderer *mdrender.Renderer, log *slog.Logger, opts WorkerOptions) *Worker {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = MaxRetries
	}
	if opts.Backoff == nil {
		opts.Backoff = Backoff
	}
	if renderer == nil {
		renderer = mdrender.New()
	}
	return &Worker{gen: gen, renderer: renderer, log: log, opts: opts}
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "mode", job.Mode, "filename", job.Filename)
	defer job.releaseFileData()
	start := time.Now()

	// Phase 1: Extract page text
	job.SetStatus(StatusExtracting, "extracting")
	data := job.FileData()
	doc, err := w.extract(job, data)
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetPageCount(doc.PageCount())
	log.Info("extracted document", "pages", doc.PageCount())

	inline := w.opts.InlinePDF && parser.IsPDF(job.Filename)
	if doc.IsEmpty() && !inline {
		job.AddError("no extractable text")
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 2: Generate
	job.SetStatus(StatusGenerating, "generating")
	req := analysis.Request{Mode: job.Mode}
	truncated := false
	if inline {
		req.Prompt, err = analysis.BuildInstructions(job.Mode, doc.Title)
		req.PDF = data
	} else {
		var p *analysis.Prompt
		if p, err = analysis.BuildPrompt(job.Mode, doc, w.opts.MaxPromptTokens); err == nil {
			req.Prompt, truncated = p.Text, p.Truncated
			if truncated {
				log.Warn("prompt truncated", "pages_included", p.Pages, "pages", doc.PageCount())
			}
		}
	}
	if err != nil {
		log.Error("build prompt failed", "error", err)
		job.AddError(fmt.Sprintf("prompt: %s", err))
		job.SetStatus(StatusFailed, "generating")
		return
	}

	text, err := retry.DoWithData(
		func() (string, error) {
			job.IncrAttempts()
			return w.gen.Generate(ctx, req)
		},
		retryOptions(ctx, w.opts.MaxRetries, w.opts.Backoff, log)...,
	)
	if err != nil {
		log.Error("generation failed", "error", err)
		job.AddError(fmt.Sprintf("generate: %s", err))
		job.SetStatus(StatusFailed, "generating")
		return
	}

	// Phase 3: Render
	job.SetStatus(StatusRendering, "rendering")
	result := &Result{
		Mode:      job.Mode,
		Model:     w.opts.Model,
		PageCount: doc.PageCount(),
		Truncated: truncated,
	}
	switch job.Mode {
	case analysis.ModeComplex:
		rendered, err := w.renderer.Render(text)
		if err != nil {
			log.Error("render failed", "error", err)
			job.AddError(fmt.Sprintf("render: %s", err))
			job.SetStatus(StatusFailed, "rendering")
			return
		}
		result.Markdown = mdrender.CleanMarkdown(text)
		result.HTML = rendered.HTML
		result.Citations = rendered.Citations
		result.Warnings = citationWarnings(rendered.Citations, doc.PageCount())
	default:
		result.Summary = analysis.ParseSummary(text)
		if !result.Summary.Valid {
			result.Warnings = append(result.Warnings, "model response is not valid JSON; raw text returned")
		}
		result.Warnings = append(result.Warnings, result.Summary.Warnings...)
	}

	job.SetResult(result)
	job.SetStatus(StatusCompleted, "done")
	log.Info("analysis complete",
		"citations", len(result.Citations),
		"warnings", len(result.Warnings),
		"duration_ms", time.Since(start).Milliseconds())
}

func (w *Worker) extract(job *Job, data []byte) (*document.Document, error) {
	p, err := parser.ForFile(job.Filename, parser.Options{PDFFallbackPdftotext: w.opts.PDFFallbackPdftotext})
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if job.Title != "" {
		doc.Title = job.Title
	} else {
		job.SetTitle(doc.Title)
	}
	return doc, nil
}

// citationWarnings flags cited pages the document does not have.
func citationWarnings(citations []mdrender.Citation, pageCount int) []string {
	if pageCount == 0 {
		return nil
	}
	var warnings []string
	seen := map[int]bool{}
	for _, c := range citations {
		for _, p := range c.Pages {
			if p > pageCount && !seen[p] {
				seen[p] = true
				warnings = append(warnings, fmt.Sprintf("citation %q points past the last page (%d)", c.Raw, pageCount))
			}
		}
		if len(c.Pages) == 0 {
			warnings = append(warnings, fmt.Sprintf("citation %q has no valid pages", c.Raw))
		}
	}
	return warnings
}
