// Package pipeline orchestrates resume ingestion: hash, dedup check,
// archive, text extraction, field extraction, record append, notification,
// local cleanup. Documents are processed sequentially; one bad document
// never aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/snehbhagat/resume-intake/constants"
	"github.com/snehbhagat/resume-intake/internal/archive"
	"github.com/snehbhagat/resume-intake/internal/entity"
	"github.com/snehbhagat/resume-intake/internal/extract"
	"github.com/snehbhagat/resume-intake/internal/hashing"
	"github.com/snehbhagat/resume-intake/internal/notify"
	"github.com/snehbhagat/resume-intake/internal/records"
)

// Options tunes batch behavior.
type Options struct {
	// InterDocWait is slept between documents to respect collaborator API
	// rate limits. Zero disables the wait.
	InterDocWait time.Duration
	// CallTimeout bounds each collaborator call so a stuck external call
	// fails the one document instead of hanging the batch.
	CallTimeout time.Duration
}

// Pipeline wires the stages together. Collaborators are injected as
// interfaces; tests substitute in-memory fakes.
type Pipeline struct {
	index    *hashing.DedupIndex
	text     extract.TextExtractor
	fields   extract.FieldExtractor
	archive  archive.Store
	records  records.Store
	notifier notify.Notifier // nil disables notifications
	opts     Options
	logger   *slog.Logger
}

func New(
	index *hashing.DedupIndex,
	text extract.TextExtractor,
	fields extract.FieldExtractor,
	arch archive.Store,
	recs records.Store,
	notifier notify.Notifier,
	opts Options,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 60 * time.Second
	}
	return &Pipeline{
		index:    index,
		text:     text,
		fields:   fields,
		archive:  arch,
		records:  recs,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

// Run processes a batch of documents. The returned error covers batch-level
// setup only (the header check); per-document failures land in the report.
func (p *Pipeline) Run(ctx context.Context, docs []entity.RawDocument) (Report, error) {
	report := Report{RunID: uuid.NewString(), Started: time.Now().UTC()}
	log := p.logger.With("run_id", report.RunID)

	hctx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	err := p.records.EnsureHeaders(hctx)
	cancel()
	if err != nil {
		return report, fmt.Errorf("ensure headers: %w", err)
	}

	for i, doc := range docs {
		if i > 0 && p.opts.InterDocWait > 0 {
			select {
			case <-time.After(p.opts.InterDocWait):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}

		res := p.processOne(ctx, log, doc)
		report.add(res)
		log.Info("pipeline.document.done",
			"display_name", res.DisplayName,
			"status", string(res.Status),
			"stage", res.Stage,
			"error", res.Err,
		)
	}

	report.Finished = time.Now().UTC()
	log.Info("pipeline.batch.done",
		"documents", len(docs),
		"uploaded", report.Uploaded,
		"dup_content", report.DupContent,
		"dup_identity", report.DupIdentity,
		"failed", report.Failed,
	)
	return report, nil
}

// processOne walks a single document through the state machine. The local
// spooled copy is removed in every terminal path.
func (p *Pipeline) processOne(ctx context.Context, log *slog.Logger, doc entity.RawDocument) DocResult {
	res := DocResult{DisplayName: doc.DisplayName}
	defer p.removeLocalCopy(log, doc)

	// Fetched -> Hashed. Pure, always succeeds.
	fp := hashing.Hash(doc.Bytes)
	res.Fingerprint = fp

	// The content-dedup short circuit comes before any archive or
	// extraction work; that is the resource-saving branch.
	if p.index.Contains(fp) {
		log.Info("pipeline.skip.duplicate_content", "display_name", doc.DisplayName, "fingerprint", string(fp))
		res.Status = constants.DocStatusDupContent
		return res
	}

	// Hashed -> ContentArchived. The archive-side fingerprint lookup is
	// defense in depth against a reset local log or a second instance.
	handle, err := p.archiveDocument(ctx, doc, fp)
	if err != nil {
		// Not marked processed: the document is retried next run.
		log.Error("pipeline.archive.failed", "display_name", doc.DisplayName, "error", err)
		res.Status = constants.DocStatusFailed
		res.Stage = "archive"
		res.Err = err.Error()
		return res
	}

	// Mark only after a confirmed archive write (or confirmed pre-existing
	// entry), so a crash in between leaves the document eligible for retry.
	if err := p.index.Mark(fp); err != nil {
		log.Warn("pipeline.mark.failed", "display_name", doc.DisplayName, "error", err)
	}

	// ContentArchived -> TextExtracted -> FieldsExtracted. Extraction
	// failures are contained: the document stays marked processed so a
	// permanently-malformed file is never reprocessed, but no record is
	// created.
	textRes, err := p.text.Extract(ctx, doc.Bytes)
	if err != nil {
		log.Error("pipeline.extract.failed", "display_name", doc.DisplayName, "error", err)
		res.Status = constants.DocStatusNoRecord
		res.Stage = "extract"
		res.Err = err.Error()
		return res
	}
	log.Info("pipeline.extract.ok",
		"display_name", doc.DisplayName,
		"method", textRes.Method,
		"pages", textRes.Pages,
		"bytes", len(textRes.Text),
	)

	rec := p.fields.ExtractFields(textRes.Text)
	rec.ArchiveLink = handle.Link
	res.Record = &rec

	// FieldsExtracted -> {SkippedDuplicateIdentity | Recorded}. Identity
	// dedup only applies to real emails; sentinel rows always append.
	if rec.HasEmail() {
		cctx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
		exists, err := p.records.EmailExists(cctx, rec.Email)
		cancel()
		if err != nil {
			log.Error("pipeline.identity_check.failed", "display_name", doc.DisplayName, "error", err)
			res.Status = constants.DocStatusFailed
			res.Stage = "identity-check"
			res.Err = err.Error()
			return res
		}
		if exists {
			log.Info("pipeline.skip.duplicate_identity", "display_name", doc.DisplayName, "email", rec.Email)
			res.Status = constants.DocStatusDupIdentity
			return res
		}
	}

	cctx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	err = p.records.Append(cctx, rec)
	cancel()
	if err != nil {
		log.Error("pipeline.record.failed", "display_name", doc.DisplayName, "error", err)
		res.Status = constants.DocStatusFailed
		res.Stage = "record"
		res.Err = err.Error()
		return res
	}

	// Recorded -> Notified. Best effort; a failure never rolls back the
	// record.
	if p.notifier != nil {
		nctx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
		if err := p.notifier.Notify(nctx, rec); err != nil {
			log.Warn("pipeline.notify.failed", "display_name", doc.DisplayName, "error", err)
		}
		cancel()
	}

	res.Status = constants.DocStatusUploaded
	return res
}

// archiveDocument uploads unless an entry with the same fingerprint already
// exists; either way it returns a usable handle.
func (p *Pipeline) archiveDocument(ctx context.Context, doc entity.RawDocument, fp hashing.Fingerprint) (archive.Handle, error) {
	cctx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	defer cancel()

	existing, err := p.archive.FindByFingerprint(cctx, fp)
	if err != nil {
		return archive.Handle{}, fmt.Errorf("archive lookup: %w", err)
	}
	if existing != nil {
		p.logger.Info("pipeline.archive.exists", "display_name", doc.DisplayName, "file_id", existing.ID)
		return *existing, nil
	}

	handle, err := p.archive.Upload(cctx, doc.DisplayName, doc.Bytes, fp)
	if err != nil {
		return archive.Handle{}, fmt.Errorf("archive upload: %w", err)
	}
	return handle, nil
}

func (p *Pipeline) removeLocalCopy(log *slog.Logger, doc entity.RawDocument) {
	if doc.LocalPath == "" {
		return
	}
	if err := os.Remove(doc.LocalPath); err != nil && !os.IsNotExist(err) {
		log.Warn("pipeline.cleanup.failed", "path", doc.LocalPath, "error", err)
	}
}
