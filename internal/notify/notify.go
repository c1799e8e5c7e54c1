package notify

import (
	"context"

	"github.com/snehbhagat/resume-intake/internal/entity"
)

// Notifier announces a newly recorded candidate to a reviewer. Calls are
// fire-and-forget: the pipeline logs a failure and moves on, it never rolls
// back the record.
type Notifier interface {
	Notify(ctx context.Context, rec entity.CandidateRecord) error
}
