package records

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/snehbhagat/resume-intake/internal/entity"
)

// SheetsStore keeps the candidate table in a Google Sheet.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

func NewSheetsStore(ctx context.Context, client *http.Client, spreadsheetID, sheetName string, logger *slog.Logger) (*SheetsStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &SheetsStore{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

func (s *SheetsStore) EnsureHeaders(ctx context.Context) error {
	rng := fmt.Sprintf("%s!1:1", s.sheetName)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		if !headerRowMatches(resp.Values[0]) {
			s.logger.Warn("header row differs from expected", "expected", Headers)
		}
		return nil
	}

	row := make([]interface{}, len(Headers))
	for i, h := range Headers {
		row[i] = h
	}
	_, err = s.service.Spreadsheets.Values.Update(
		s.spreadsheetID,
		fmt.Sprintf("%s!A1", s.sheetName),
		&sheets.ValueRange{Values: [][]interface{}{row}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	s.logger.Info("records.headers.written")
	return nil
}

func (s *SheetsStore) EmailExists(ctx context.Context, email string) (bool, error) {
	// Column B holds the email addresses; row 1 is the header.
	rng := fmt.Sprintf("%s!B2:B", s.sheetName)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read email column: %w", err)
	}
	for _, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *SheetsStore) Append(ctx context.Context, rec entity.CandidateRecord) error {
	values := [][]interface{}{{rec.Name, rec.Email, rec.Phone, rec.ArchiveLink}}
	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		fmt.Sprintf("%s!A:D", s.sheetName),
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	s.logger.Info("records.append.ok", "email", rec.Email)
	return nil
}

func (s *SheetsStore) Rows(ctx context.Context) ([]entity.CandidateRecord, error) {
	rng := fmt.Sprintf("%s!A2:D", s.sheetName)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	out := make([]entity.CandidateRecord, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, entity.CandidateRecord{
			Name:        cell(row, 0),
			Email:       cell(row, 1),
			Phone:       cell(row, 2),
			ArchiveLink: cell(row, 3),
		})
	}
	return out, nil
}

func headerRowMatches(row []interface{}) bool {
	if len(row) < len(Headers) {
		return false
	}
	for i, h := range Headers {
		if fmt.Sprint(row[i]) != h {
			return false
		}
	}
	return true
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return fmt.Sprint(row[i])
}
