package transport

import (
	"context"

	"github.com/snehbhagat/resume-intake/internal/entity"
)

// Source fetches resume documents from an external inbox. The pipeline
// treats every returned blob as new; content-level dedup happens downstream
// via fingerprints, so a source may safely return the same attachment twice.
type Source interface {
	FetchNewDocuments(ctx context.Context, subjectFilter string) ([]entity.RawDocument, error)
}
