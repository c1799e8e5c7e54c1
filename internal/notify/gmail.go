package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/snehbhagat/resume-intake/internal/entity"
)

// GmailNotifier emails the reviewer about each new application through the
// already-authorized Gmail account.
type GmailNotifier struct {
	service  *gmail.Service
	reviewer string
	logger   *slog.Logger
}

func NewGmailNotifier(ctx context.Context, client *http.Client, reviewerEmail string, logger *slog.Logger) (*GmailNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create gmail client: %w", err)
	}
	return &GmailNotifier{service: srv, reviewer: reviewerEmail, logger: logger}, nil
}

func (n *GmailNotifier) Notify(ctx context.Context, rec entity.CandidateRecord) error {
	subject := fmt.Sprintf("New job application: %s", rec.Name)
	body := fmt.Sprintf(
		"A new job application has been received.\n\n"+
			"Name:  %s\nEmail: %s\nPhone: %s\nResume: %s\n\n"+
			"Please review the application in the candidate sheet.\n",
		rec.Name, rec.Email, rec.Phone, rec.ArchiveLink,
	)

	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		n.reviewer, subject, body)

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}
	if _, err := n.service.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	n.logger.Info("notify.sent", "reviewer", n.reviewer, "candidate", rec.Email)
	return nil
}
