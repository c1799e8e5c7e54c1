package constants

// DocStatus is the terminal outcome for a document in a batch run.
type DocStatus string

// Stable values (these exact strings appear in logs and reports).
const (
	DocStatusUploaded    DocStatus = "UPLOADED"     // archived and recorded
	DocStatusDupContent  DocStatus = "DUP_CONTENT"  // fingerprint seen before, skipped early
	DocStatusDupIdentity DocStatus = "DUP_IDENTITY" // email already recorded, archived only
	DocStatusNoRecord    DocStatus = "NO_RECORD"    // archived, but extraction failed; marked processed
	// FAILED covers collaborator failures. Archive-stage failures happen
	// before the fingerprint is marked, so those documents are retried next
	// run; failures after archiving (identity check, record append) are
	// already marked and need manual follow-up via the run report.
	DocStatusFailed DocStatus = "FAILED"
)
