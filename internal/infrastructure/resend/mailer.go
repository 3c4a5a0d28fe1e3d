// Package resend delivers transactional email through the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/fitness-hub/core/internal/domain"
	resendsdk "github.com/resend/resend-go/v2"
)

// emailSender is the part of resendsdk.EmailsSvc the mailer uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resendsdk.SendEmailRequest) (*resendsdk.SendEmailResponse, error)
}

type Mailer struct {
	emails emailSender
	from   string
}

func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{emails: resendsdk.NewClient(apiKey).Emails, from: from}
}

// Send submits msg once. The returned error wraps the API failure as is.
func (m *Mailer) Send(ctx context.Context, msg domain.Email) error {
	_, err := m.emails.SendWithContext(ctx, &resendsdk.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend send email: %w", err)
	}
	return nil
}
