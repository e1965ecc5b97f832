package services

import (
	"context"

	"github.com/campusdesk/admissions/src/logging"
	"github.com/rs/zerolog"
)

// LogMailer writes notifications to the log instead of sending them.
// Used when no mail relay is configured.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer creates a new log mailer
func NewLogMailer() *LogMailer {
	return &LogMailer{logger: logging.NewLogger("mailer")}
}

// Name identifies the mailer in logs
func (m *LogMailer) Name() string { return "log" }

// Send logs n and always succeeds
func (m *LogMailer) Send(ctx context.Context, n Notification) error {
	m.logger.Warn().
		Str("to", n.To).
		Str("subject", n.Subject).
		Str("body", n.Body).
		Msg("Mail relay not configured - email not sent")
	return nil
}
