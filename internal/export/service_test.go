package export

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/snehbhagat/resume-intake/constants"
	"github.com/snehbhagat/resume-intake/internal/entity"
	"github.com/snehbhagat/resume-intake/internal/records"
)

type stubStore struct {
	rows []entity.CandidateRecord
	err  error
}

func (s *stubStore) EnsureHeaders(context.Context) error { return nil }

func (s *stubStore) EmailExists(context.Context, string) (bool, error) { return false, nil }

func (s *stubStore) Append(context.Context, entity.CandidateRecord) error { return nil }
func (s *stubStore) Rows(context.Context) ([]entity.CandidateRecord, error) {
	return s.rows, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestExportCandidatesXLSX(t *testing.T) {
	store := &stubStore{rows: []entity.CandidateRecord{
		{Name: "Jane Doe", Email: "jane.doe@example.com", Phone: "+1-555-123-4567", ArchiveLink: "https://archive.example/1"},
		{Name: constants.NotFound, Email: constants.NotFound, Phone: constants.NotFound, ArchiveLink: "https://archive.example/2"},
	}}

	data, err := NewService(store, testLogger()).ExportCandidatesXLSX(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	got, err := f.GetRows("Candidates")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(got))
	}
	for i, h := range records.Headers {
		if got[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, got[0][i], h)
		}
	}
	if got[1][0] != "Jane Doe" || got[1][1] != "jane.doe@example.com" {
		t.Errorf("unexpected first data row %v", got[1])
	}
	if got[2][0] != constants.NotFound {
		t.Errorf("sentinel row not preserved: %v", got[2])
	}
}

func TestExportCandidatesXLSXStoreError(t *testing.T) {
	store := &stubStore{err: errors.New("sheet unavailable")}
	if _, err := NewService(store, testLogger()).ExportCandidatesXLSX(context.Background()); err == nil {
		t.Fatal("expected error when the store read fails")
	}
}
