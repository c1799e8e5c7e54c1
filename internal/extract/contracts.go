package extract

import (
	"context"
	"time"

	"github.com/snehbhagat/resume-intake/internal/entity"
)

// TextExtractor is Stage 1: document bytes -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Duration time.Duration
	Warnings []string
}

// FieldExtractor is Stage 2: plain text -> candidate fields (rule-based).
type FieldExtractor interface {
	ExtractFields(text string) entity.CandidateRecord
}
