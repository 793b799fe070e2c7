package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/akulkarni/docintel/internal/model"
)

// Chunker turns a document file into page-level chunks. Implementations
// must not fail the whole call when a single page yields no text; such
// pages are simply omitted.
type Chunker interface {
	Chunks(path string) ([]model.DocumentChunk, error)
}

// PDFChunker extracts one chunk per page of a text PDF.
type PDFChunker struct {
	logger *slog.Logger
}

// NewPDFChunker creates a PDF chunker.
func NewPDFChunker(logger *slog.Logger) *PDFChunker {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFChunker{logger: logger}
}

// Chunks reads the PDF at path and returns its pages in document order.
// Pages whose text extraction fails, or that contain no text, are skipped.
func (c *PDFChunker) Chunks(path string) ([]model.DocumentChunk, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	source := filepath.Base(path)
	var chunks []model.DocumentChunk
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			c.logger.Warn("page text extraction failed", "file", source, "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		chunks = append(chunks, model.DocumentChunk{
			Text:       text,
			PageNumber: i,
			SourceFile: source,
		})
	}
	return chunks, nil
}
