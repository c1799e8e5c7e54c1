package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// OCRFallback is the expensive path for scanned documents. Satisfied by
// *ocr.Extractor.
type OCRFallback interface {
	ExtractPDF(ctx context.Context, path string) (text string, pages int, warnings []string, err error)
}

// Extractor implements TextExtractor: direct in-process text extraction
// first, OCR only when the direct result is empty or whitespace-only. The
// trigger is strictly the blank result, never file size or metadata.
type Extractor struct {
	direct func(data []byte) (string, int, error)
	ocr    OCRFallback
	log    *slog.Logger
}

func NewExtractor(fallback OCRFallback, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{direct: PDFText, ocr: fallback, log: log}
}

func (e *Extractor) Extract(ctx context.Context, data []byte) (TextExtractionResult, error) {
	start := time.Now()

	text, pages, err := e.direct(data)
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("pdf text: %w", err)
	}
	if strings.TrimSpace(text) != "" {
		return TextExtractionResult{
			Text:     text,
			Pages:    pages,
			Method:   "pdf-text",
			Duration: time.Since(start),
		}, nil
	}

	if e.ocr == nil {
		// No fallback configured; a scanned document legitimately yields "".
		return TextExtractionResult{
			Pages:    pages,
			Method:   "pdf-text",
			Duration: time.Since(start),
			Warnings: []string{"no text layer and no OCR fallback configured"},
		}, nil
	}

	e.log.Info("no text layer, running ocr fallback", "bytes", len(data))

	// pdftoppm wants a file path; spool the bytes to a temp file for the
	// duration of the OCR run.
	tmp, err := os.CreateTemp("", "ri-scan-*.pdf")
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("spool for ocr: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil {
			e.log.Warn("failed to remove ocr spool file", "path", tmpPath, "error", rerr)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return TextExtractionResult{}, fmt.Errorf("spool for ocr: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return TextExtractionResult{}, fmt.Errorf("spool for ocr: %w", err)
	}

	ocrText, ocrPages, warns, err := e.ocr.ExtractPDF(ctx, tmpPath)
	if err != nil {
		return TextExtractionResult{Warnings: warns}, fmt.Errorf("ocr fallback: %w", err)
	}
	return TextExtractionResult{
		Text:     ocrText,
		Pages:    ocrPages,
		Method:   "pdf-ocr",
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}
