package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/resend/resend-go/v2"
)

// Mailer sends one HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ResendMailer sends through the Resend API. Used in staging/production.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, body string) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// EmailSink mails the notification to the user's address on file. Users
// without an address are skipped.
type EmailSink struct {
	users  repository.UserRepository
	mailer Mailer
	logger *slog.Logger
}

func NewEmailSink(users repository.UserRepository, mailer Mailer, logger *slog.Logger) *EmailSink {
	return &EmailSink{users: users, mailer: mailer, logger: logger.With("component", "notify")}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Send(ctx context.Context, n domain.Notification) error {
	u, err := s.users.FindByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("find recipient: %w", err)
	}
	if u.Email == "" {
		s.logger.DebugContext(ctx, "no email on file, skipping", "user_id", n.UserID, "type", n.Type)
		return nil
	}

	body := fmt.Sprintf("<p>%s</p>", html.EscapeString(n.Message))
	return s.mailer.Send(ctx, u.Email, n.Title, body)
}
