// Package attachment reads uploaded receipt documents. PDF text is
// extracted with mupdf so the assistant can reason over receipts
// without a vision model.
package attachment

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// maxPages caps extraction; receipts past the first pages add noise
const maxPages = 3

// PDFReader implements port.ReceiptReader for PDF documents
type PDFReader struct {
	logger *zap.Logger
}

// NewPDFReader creates a new PDF receipt reader
func NewPDFReader(logger *zap.Logger) *PDFReader {
	return &PDFReader{logger: logger}
}

// ExtractText returns the plain text of the first pages of a PDF.
func (r *PDFReader) ExtractText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("receipt file not found: %s", path)
	}

	doc, err := fitz.New(path)
	if err != nil {
		r.logger.Error("Failed to open PDF", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	r.logger.Info("Receipt text extracted", zap.String("path", path), zap.Int("pages", pages))
	return sb.String(), nil
}
