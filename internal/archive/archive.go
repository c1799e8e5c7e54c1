package archive

import (
	"context"

	"github.com/snehbhagat/resume-intake/internal/hashing"
)

// Handle references an archived document and carries its shareable link.
type Handle struct {
	ID   string
	Link string
}

// Store is the durable object store holding original resume bytes. Entries
// are keyed by content fingerprint through a custom property, so an
// existence check works regardless of naming collisions. Upload is expected
// to be idempotent with respect to the fingerprint: callers check
// FindByFingerprint first, and a pre-existing entry is a success, not a
// conflict.
type Store interface {
	// FindByFingerprint returns the handle of an entry with the given
	// fingerprint, or nil when none exists.
	FindByFingerprint(ctx context.Context, fp hashing.Fingerprint) (*Handle, error)
	// Upload stores the bytes under name, tagged with the fingerprint.
	Upload(ctx context.Context, name string, data []byte, fp hashing.Fingerprint) (Handle, error)
}
