package records

import (
	"context"

	"github.com/snehbhagat/resume-intake/internal/entity"
)

// Headers is the single consolidated header set for the candidate table.
// The email column (index 1) is the identity key.
var Headers = []string{"Name", "Email Address", "Phone No", "Drive Link"}

// Store is the append-only candidate table. Rows are only ever inserted,
// never updated; at most one row per non-sentinel email may exist, which
// callers enforce with EmailExists before Append (the pipeline serializes
// that check-then-append).
type Store interface {
	// EnsureHeaders writes the header row if the table is still empty.
	EnsureHeaders(ctx context.Context) error
	// EmailExists reports whether a row with this email was already appended.
	EmailExists(ctx context.Context, email string) (bool, error)
	// Append inserts one candidate row.
	Append(ctx context.Context, rec entity.CandidateRecord) error
	// Rows returns all candidate rows in insertion order.
	Rows(ctx context.Context) ([]entity.CandidateRecord, error)
}
