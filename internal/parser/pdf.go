package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/dgallion1/filingsight/internal/document"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled and available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	pages, err := extractPDFPages(data)
	if (err != nil || blank(pages)) && p.FallbackPdftotext {
		if fb, fbErr := extractPdftotext(data); fbErr == nil {
			pages, err = fb, nil
		} else if err == nil {
			err = fbErr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return document.FromPages(trimExt(filename, ".pdf"), pages), nil
}

// extractPDFPages returns one entry per PDF page. Unreadable pages stay in the
// slice as empty strings so later pages keep their numbers.
func extractPDFPages(data []byte) (pages []string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	pages = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}

// extractPdftotext needs a file path, so the upload is written to a temp file.
func extractPdftotext(data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "filingsight-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.Command("pdftotext", "-layout", tmpPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return splitPages(string(out)), nil
}

// splitPages splits on form feeds. pdftotext ends every page with one, so a
// trailing empty element is dropped.
func splitPages(text string) []string {
	pages := strings.Split(text, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

func blank(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

var pdfcpuOnce sync.Once

// CountPDFPages validates data as a PDF and returns its page count.
func CountPDFPages(data []byte) (int, error) {
	pdfcpuOnce.Do(api.DisableConfigDir)
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("count pdf pages: %w", err)
	}
	return n, nil
}
