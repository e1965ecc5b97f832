package services

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunMailer sends transactional email via the Mailgun API
type MailgunMailer struct {
	mg   *mailgun.MailgunImpl
	from string
}

// NewMailgunMailer creates a new Mailgun mailer; eu selects the EU API endpoint
func NewMailgunMailer(domain, apiKey, from string, eu bool) *MailgunMailer {
	mg := mailgun.NewMailgun(domain, apiKey)
	if eu {
		mg.SetAPIBase(mailgun.APIBaseEU)
	}

	return &MailgunMailer{
		mg:   mg,
		from: from,
	}
}

// Name identifies the mailer in logs
func (m *MailgunMailer) Name() string { return "mailgun" }

// Send delivers n through Mailgun
func (m *MailgunMailer) Send(ctx context.Context, n Notification) error {
	message := m.mg.NewMessage(m.from, n.Subject, n.Body, n.To)
	if n.HTMLBody != "" {
		message.SetHtml(n.HTMLBody)
	}

	if _, _, err := m.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", n.To, err)
	}

	return nil
}
