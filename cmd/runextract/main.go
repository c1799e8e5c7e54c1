// runextract is a debugging tool: it runs text and field extraction on one
// local PDF and logs the outcome, without touching Gmail, Drive or Sheets.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/snehbhagat/resume-intake/internal/common"
	"github.com/snehbhagat/resume-intake/internal/extract"
	"github.com/snehbhagat/resume-intake/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <resume.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := common.LoadConfig()
	ocrExtractor := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	textExtractor := extract.NewExtractor(ocrExtractor, logger)

	start := time.Now()
	res, err := textExtractor.Extract(ctx, data)
	dur := time.Since(start)
	if err != nil {
		logger.Error("text extraction failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"warnings", res.Warnings,
		"duration_ms", dur.Milliseconds(),
	)

	rec := extract.NewRegexFieldExtractor().ExtractFields(res.Text)
	logger.Info("fields extracted",
		"name", rec.Name,
		"email", rec.Email,
		"phone", rec.Phone,
	)
}
