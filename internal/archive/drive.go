package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/snehbhagat/resume-intake/internal/hashing"
)

// hashProperty is the Drive custom property carrying the content
// fingerprint. Existence checks query it server-side.
const hashProperty = "file_hash"

// DriveStore archives resumes into a Google Drive folder.
type DriveStore struct {
	service  *drive.Service
	folderID string
	logger   *slog.Logger
}

func NewDriveStore(ctx context.Context, client *http.Client, folderID string, logger *slog.Logger) (*DriveStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	return &DriveStore{service: srv, folderID: folderID, logger: logger}, nil
}

func (s *DriveStore) FindByFingerprint(ctx context.Context, fp hashing.Fingerprint) (*Handle, error) {
	query := fmt.Sprintf(
		"'%s' in parents and trashed=false and properties has { key='%s' and value='%s' }",
		s.folderID, hashProperty, fp,
	)
	list, err := s.service.Files.List().
		Q(query).
		Fields("files(id, name, webViewLink)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive list: %w", err)
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	f := list.Files[0]
	return &Handle{ID: f.Id, Link: f.WebViewLink}, nil
}

func (s *DriveStore) Upload(ctx context.Context, name string, data []byte, fp hashing.Fingerprint) (Handle, error) {
	meta := &drive.File{
		Name:       name,
		Parents:    []string{s.folderID},
		Properties: map[string]string{hashProperty: string(fp)},
		MimeType:   "application/pdf",
	}
	created, err := s.service.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Fields("id, webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Handle{}, fmt.Errorf("drive upload: %w", err)
	}
	s.logger.Info("archive.upload.ok", "name", name, "file_id", created.Id)
	return Handle{ID: created.Id, Link: created.WebViewLink}, nil
}
