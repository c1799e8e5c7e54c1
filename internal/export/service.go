// Package export produces XLSX snapshots of the candidate table for
// reviewers who prefer a local workbook over the live sheet.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/snehbhagat/resume-intake/internal/records"
)

// Service is a tiny façade over the record store that produces XLSX bytes.
type Service struct {
	store  records.Store
	logger *slog.Logger
}

func NewService(store records.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportCandidatesXLSX returns an XLSX workbook (as bytes) with the full
// candidate table: the consolidated header row plus one row per candidate.
func (s *Service) ExportCandidatesXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	rows, err := s.store.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Candidates"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range records.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, rec.Name)
		write(2, rec.Email)
		write(3, rec.Phone)
		write(4, rec.ArchiveLink)
	}

	// Widen the columns that carry free text
	_ = f.SetColWidth(sheet, "A", "A", 28) // name
	_ = f.SetColWidth(sheet, "B", "B", 34) // email
	_ = f.SetColWidth(sheet, "C", "C", 20) // phone
	_ = f.SetColWidth(sheet, "D", "D", 60) // archive link

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
