package transport

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/snehbhagat/resume-intake/constants"
	"github.com/snehbhagat/resume-intake/internal/entity"
)

// GmailSource pulls PDF attachments from job-application emails. Fetched
// bytes are spooled under spoolDir with a timestamped display name so that
// repeated submissions of the same filename never collide.
type GmailSource struct {
	service  *gmail.Service
	spoolDir string
	logger   *slog.Logger
	now      func() time.Time
}

func NewGmailSource(ctx context.Context, client *http.Client, spoolDir string, logger *slog.Logger) (*GmailSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create gmail client: %w", err)
	}
	return &GmailSource{
		service:  srv,
		spoolDir: spoolDir,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// FetchNewDocuments downloads PDF attachments from messages matching the
// subject filter. Per-message failures are logged and skipped; the fetch
// only fails as a whole when the mailbox itself cannot be listed.
func (s *GmailSource) FetchNewDocuments(ctx context.Context, subjectFilter string) ([]entity.RawDocument, error) {
	if err := os.MkdirAll(s.spoolDir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool directory: %w", err)
	}

	const user = "me"
	query := fmt.Sprintf("subject:%q has:attachment", subjectFilter)

	list, err := s.service.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(list.Messages) == 0 {
		s.logger.Info("no matching messages", "filter", subjectFilter)
		return nil, nil
	}

	var docs []entity.RawDocument
	for _, m := range list.Messages {
		message, err := s.service.Users.Messages.Get(user, m.Id).Context(ctx).Do()
		if err != nil {
			s.logger.Warn("retrieve message failed", "message_id", m.Id, "error", err)
			continue
		}

		for _, part := range messageParts(message.Payload) {
			if part.Filename == "" || part.Body == nil || part.Body.AttachmentId == "" {
				continue
			}
			if !constants.AllowedExt(filepath.Ext(part.Filename)) {
				continue
			}

			att, err := s.service.Users.Messages.Attachments.Get(user, m.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				s.logger.Warn("retrieve attachment failed", "message_id", m.Id, "filename", part.Filename, "error", err)
				continue
			}
			data, err := base64.URLEncoding.DecodeString(att.Data)
			if err != nil {
				s.logger.Warn("decode attachment failed", "message_id", m.Id, "filename", part.Filename, "error", err)
				continue
			}

			displayName := fmt.Sprintf("%s_%s", s.now().Format("20060102_150405"), SanitizeFilename(part.Filename))
			localPath := filepath.Join(s.spoolDir, displayName)
			if err := os.WriteFile(localPath, data, 0o644); err != nil {
				s.logger.Warn("spool attachment failed", "path", localPath, "error", err)
				continue
			}

			s.logger.Info("fetched attachment", "display_name", displayName, "bytes", len(data))
			docs = append(docs, entity.RawDocument{
				DisplayName: displayName,
				Bytes:       data,
				LocalPath:   localPath,
			})
		}
	}
	return docs, nil
}

// messageParts flattens the MIME tree; attachments can sit below a
// multipart/alternative wrapper, not just at the top level.
func messageParts(payload *gmail.MessagePart) []*gmail.MessagePart {
	if payload == nil {
		return nil
	}
	var out []*gmail.MessagePart
	for _, p := range payload.Parts {
		out = append(out, p)
		out = append(out, messageParts(p)...)
	}
	return out
}

// SanitizeFilename keeps alphanumerics, spaces, hyphens, underscores and
// dots; everything else is dropped.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}
