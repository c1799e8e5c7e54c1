package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/snehbhagat/resume-intake/constants"
	"github.com/snehbhagat/resume-intake/internal/archive"
	"github.com/snehbhagat/resume-intake/internal/entity"
	"github.com/snehbhagat/resume-intake/internal/extract"
	"github.com/snehbhagat/resume-intake/internal/hashing"
)

// fakeText treats the document bytes as the extracted text. A payload equal
// to "FAIL" simulates an unreadable document.
type fakeText struct{}

func (fakeText) Extract(_ context.Context, data []byte) (extract.TextExtractionResult, error) {
	if string(data) == "FAIL" {
		return extract.TextExtractionResult{}, errors.New("unreadable document")
	}
	return extract.TextExtractionResult{Text: string(data), Pages: 1, Method: "pdf-text"}, nil
}

type fakeArchive struct {
	byFingerprint map[hashing.Fingerprint]archive.Handle
	uploads       int
	failUpload    bool
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{byFingerprint: make(map[hashing.Fingerprint]archive.Handle)}
}

func (a *fakeArchive) FindByFingerprint(_ context.Context, fp hashing.Fingerprint) (*archive.Handle, error) {
	if h, ok := a.byFingerprint[fp]; ok {
		return &h, nil
	}
	return nil, nil
}

func (a *fakeArchive) Upload(_ context.Context, name string, _ []byte, fp hashing.Fingerprint) (archive.Handle, error) {
	if a.failUpload {
		return archive.Handle{}, errors.New("upload refused")
	}
	a.uploads++
	h := archive.Handle{
		ID:   fmt.Sprintf("file-%d", a.uploads),
		Link: fmt.Sprintf("https://archive.example/%d/%s", a.uploads, name),
	}
	a.byFingerprint[fp] = h
	return h, nil
}

type fakeRecords struct {
	rows       []entity.CandidateRecord
	headers    bool
	failAppend bool
}

func (r *fakeRecords) EnsureHeaders(context.Context) error {
	r.headers = true
	return nil
}

func (r *fakeRecords) EmailExists(_ context.Context, email string) (bool, error) {
	for _, rec := range r.rows {
		if rec.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRecords) Append(_ context.Context, rec entity.CandidateRecord) error {
	if r.failAppend {
		return errors.New("append refused")
	}
	r.rows = append(r.rows, rec)
	return nil
}

func (r *fakeRecords) Rows(context.Context) ([]entity.CandidateRecord, error) {
	return r.rows, nil
}

type fakeNotifier struct {
	calls int
	fail  bool
}

func (n *fakeNotifier) Notify(context.Context, entity.CandidateRecord) error {
	n.calls++
	if n.fail {
		return errors.New("mail server down")
	}
	return nil
}

type harness struct {
	pipeline *Pipeline
	index    *hashing.DedupIndex
	archive  *fakeArchive
	records  *fakeRecords
	notifier *fakeNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	idx, err := hashing.OpenDedupIndex(filepath.Join(t.TempDir(), "processed_files.txt"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	arch := newFakeArchive()
	recs := &fakeRecords{}
	ntf := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	p := New(idx, fakeText{}, extract.NewRegexFieldExtractor(), arch, recs, ntf, Options{}, logger)
	return &harness{pipeline: p, index: idx, archive: arch, records: recs, notifier: ntf}
}

func doc(name, text string) entity.RawDocument {
	return entity.RawDocument{DisplayName: name, Bytes: []byte(text)}
}

const resumeText = "Jane Doe\nSoftware Engineer\njane.doe@example.com\n+1-555-123-4567"

func TestRunRecordsNewCandidate(t *testing.T) {
	h := newHarness(t)

	report, err := h.pipeline.Run(context.Background(), []entity.RawDocument{doc("jane.pdf", resumeText)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Uploaded != 1 || report.Failed != 0 {
		t.Fatalf("tally = %+v, want 1 uploaded", report)
	}
	if !h.records.headers {
		t.Error("headers never ensured")
	}
	if h.archive.uploads != 1 {
		t.Errorf("uploads = %d, want 1", h.archive.uploads)
	}
	if len(h.records.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(h.records.rows))
	}
	rec := h.records.rows[0]
	if rec.Name != "Jane Doe" || rec.Email != "jane.doe@example.com" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.ArchiveLink == "" || rec.ArchiveLink == constants.NotFound {
		t.Errorf("record missing archive link: %+v", rec)
	}
	if h.notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", h.notifier.calls)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness(t)
	batch := []entity.RawDocument{doc("jane.pdf", resumeText)}

	if _, err := h.pipeline.Run(context.Background(), batch); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := h.pipeline.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if report.DupContent != 1 || report.Uploaded != 0 {
		t.Errorf("second run tally = %+v, want 1 dup-content", report)
	}
	if h.archive.uploads != 1 {
		t.Errorf("uploads = %d, want 1", h.archive.uploads)
	}
	if len(h.records.rows) != 1 {
		t.Errorf("rows = %d, want 1", len(h.records.rows))
	}
}

func TestRunIdenticalBytesDifferentNames(t *testing.T) {
	h := newHarness(t)
	batch := []entity.RawDocument{
		doc("jane_v1.pdf", resumeText),
		doc("jane_final.pdf", resumeText),
	}

	report, err := h.pipeline.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Uploaded != 1 || report.DupContent != 1 {
		t.Errorf("tally = %+v, want 1 uploaded + 1 dup-content", report)
	}
	if h.archive.uploads != 1 {
		t.Errorf("uploads = %d, want 1", h.archive.uploads)
	}
}

func TestRunDifferentBytesSameEmail(t *testing.T) {
	h := newHarness(t)
	batch := []entity.RawDocument{
		doc("jane_v1.pdf", resumeText),
		doc("jane_v2.pdf", resumeText+"\nUpdated with new role."),
	}

	report, err := h.pipeline.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Both versions are archived (distinct content), but the identity dedup
	// keeps the candidate table at one row.
	if h.archive.uploads != 2 {
		t.Errorf("uploads = %d, want 2", h.archive.uploads)
	}
	if report.Uploaded != 1 || report.DupIdentity != 1 {
		t.Errorf("tally = %+v, want 1 uploaded + 1 dup-identity", report)
	}
	if len(h.records.rows) != 1 {
		t.Errorf("rows = %d, want 1", len(h.records.rows))
	}
}

func TestRunSentinelEmailAlwaysAppends(t *testing.T) {
	h := newHarness(t)
	batch := []entity.RawDocument{
		doc("scan1.pdf", "illegible scan one"),
		doc("scan2.pdf", "illegible scan two"),
	}

	report, err := h.pipeline.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Uploaded != 2 {
		t.Errorf("tally = %+v, want 2 uploaded", report)
	}
	if len(h.records.rows) != 2 {
		t.Fatalf("rows = %d, want 2 (sentinel emails never dedup)", len(h.records.rows))
	}
	for _, rec := range h.records.rows {
		if rec.Email != constants.NotFound {
			t.Errorf("expected sentinel email, got %q", rec.Email)
		}
	}
}

func TestRunExtractionFailureArchivesWithoutRecord(t *testing.T) {
	h := newHarness(t)
	batch := []entity.RawDocument{
		doc("broken.pdf", "FAIL"),
		doc("jane.pdf", resumeText),
	}

	report, err := h.pipeline.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// The broken document is archived and marked processed, so the batch
	// continues and a rerun will not retry it.
	if report.Failed != 1 || report.Uploaded != 1 {
		t.Errorf("tally = %+v, want 1 failed + 1 uploaded", report)
	}
	if h.archive.uploads != 2 {
		t.Errorf("uploads = %d, want 2", h.archive.uploads)
	}
	if len(h.records.rows) != 1 {
		t.Errorf("rows = %d, want 1", len(h.records.rows))
	}
	if !h.index.Contains(hashing.Hash([]byte("FAIL"))) {
		t.Error("broken document should stay marked processed")
	}
	if got := report.Results[0].Status; got != constants.DocStatusNoRecord {
		t.Errorf("broken document status = %s, want %s", got, constants.DocStatusNoRecord)
	}
}

func TestRunArchiveFailureLeavesDocumentRetryable(t *testing.T) {
	h := newHarness(t)
	h.archive.failUpload = true

	report, err := h.pipeline.Run(context.Background(), []entity.RawDocument{doc("jane.pdf", resumeText)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("tally = %+v, want 1 failed", report)
	}
	if h.index.Contains(hashing.Hash([]byte(resumeText))) {
		t.Error("fingerprint must not be marked when the archive write failed")
	}
	if len(h.records.rows) != 0 {
		t.Errorf("rows = %d, want 0", len(h.records.rows))
	}

	// Next run, with the archive healthy again, picks the document up.
	h.archive.failUpload = false
	report, err = h.pipeline.Run(context.Background(), []entity.RawDocument{doc("jane.pdf", resumeText)})
	if err != nil {
		t.Fatalf("retry run: %v", err)
	}
	if report.Uploaded != 1 {
		t.Errorf("retry tally = %+v, want 1 uploaded", report)
	}
}

func TestRunAppendFailureAfterArchiveStaysMarked(t *testing.T) {
	// Failures after the archive write leave the fingerprint marked: the
	// next run skips the document as duplicate content instead of retrying,
	// and the miss has to be followed up from the run report.
	h := newHarness(t)
	h.records.failAppend = true

	report, err := h.pipeline.Run(context.Background(), []entity.RawDocument{doc("jane.pdf", resumeText)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("tally = %+v, want 1 failed", report)
	}
	if got := report.Results[0].Stage; got != "record" {
		t.Errorf("stage = %q, want record", got)
	}
	if !h.index.Contains(hashing.Hash([]byte(resumeText))) {
		t.Error("fingerprint should stay marked after the archive write")
	}

	h.records.failAppend = false
	report, err = h.pipeline.Run(context.Background(), []entity.RawDocument{doc("jane.pdf", resumeText)})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.DupContent != 1 || report.Uploaded != 0 {
		t.Errorf("second run tally = %+v, want 1 dup-content", report)
	}
	if len(h.records.rows) != 0 {
		t.Errorf("rows = %d, want 0 (record is not recovered automatically)", len(h.records.rows))
	}
}

func TestRunNotifyFailureKeepsRecord(t *testing.T) {
	h := newHarness(t)
	h.notifier.fail = true

	report, err := h.pipeline.Run(context.Background(), []entity.RawDocument{doc("jane.pdf", resumeText)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Uploaded != 1 || report.Failed != 0 {
		t.Errorf("tally = %+v, want 1 uploaded despite notify failure", report)
	}
	if len(h.records.rows) != 1 {
		t.Errorf("rows = %d, want 1", len(h.records.rows))
	}
}

func TestRunRemovesLocalCopy(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "spooled.pdf")
	if err := os.WriteFile(path, []byte(resumeText), 0o644); err != nil {
		t.Fatalf("write spool file: %v", err)
	}
	d := doc("jane.pdf", resumeText)
	d.LocalPath = path

	if _, err := h.pipeline.Run(context.Background(), []entity.RawDocument{d}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("spooled copy still present at %s", path)
	}
}

func TestRunArchiveSideDedupSkipsUpload(t *testing.T) {
	// A reset local hash log must not cause a second upload: the pipeline
	// falls back to the archive-side fingerprint lookup.
	h := newHarness(t)
	fp := hashing.Hash([]byte(resumeText))
	h.archive.byFingerprint[fp] = archive.Handle{ID: "pre", Link: "https://archive.example/pre"}

	report, err := h.pipeline.Run(context.Background(), []entity.RawDocument{doc("jane.pdf", resumeText)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if h.archive.uploads != 0 {
		t.Errorf("uploads = %d, want 0", h.archive.uploads)
	}
	if report.Uploaded != 1 {
		t.Errorf("tally = %+v, want 1 uploaded", report)
	}
	if got := h.records.rows[0].ArchiveLink; got != "https://archive.example/pre" {
		t.Errorf("archive link = %q, want the pre-existing file's link", got)
	}
	if !h.index.Contains(fp) {
		t.Error("fingerprint should be marked after confirming the archive entry")
	}
}
