package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusdesk/admissions/src/logging"
	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/templates"
	"github.com/rs/zerolog"
)

// DefaultMailTimeout bounds a single delivery attempt
const DefaultMailTimeout = 10 * time.Second

// Notification is a single outgoing email
type Notification struct {
	To       string
	Subject  string
	Body     string
	HTMLBody string
}

// Mailer delivers one notification
type Mailer interface {
	Send(ctx context.Context, n Notification) error
	Name() string
}

// ErrMailTimeout is logged when a mailer exceeds the dispatcher timeout
var ErrMailTimeout = errors.New("mail delivery timed out")

// NotificationDispatcher sends notifications best-effort.
// Failures are logged and never returned to the caller.
type NotificationDispatcher struct {
	mailer  Mailer
	timeout time.Duration
	logger  zerolog.Logger
}

// NewNotificationDispatcher creates a dispatcher bounded by timeout
func NewNotificationDispatcher(mailer Mailer, timeout time.Duration) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = DefaultMailTimeout
	}
	return &NotificationDispatcher{
		mailer:  mailer,
		timeout: timeout,
		logger:  logging.NewLogger("notification"),
	}
}

// Dispatch sends n and reports whether it was delivered
func (d *NotificationDispatcher) Dispatch(ctx context.Context, n Notification) bool {
	// Committed state must not depend on the client staying connected
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("mailer panic: %v", r)
			}
		}()
		done <- d.mailer.Send(ctx, n)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ErrMailTimeout
	}

	if err != nil {
		d.logger.Error().
			Err(err).
			Str("mailer", d.mailer.Name()).
			Str("to", n.To).
			Str("subject", n.Subject).
			Msg("Failed to send email")
		return false
	}

	d.logger.Info().
		Str("mailer", d.mailer.Name()).
		Str("to", n.To).
		Str("subject", n.Subject).
		Msg("Email sent")
	return true
}

// ApprovalNotification builds the admission approved email for student
func ApprovalNotification(cfg *templates.EmailConfig, student *models.Student) Notification {
	if cfg == nil {
		cfg = templates.DefaultEmailConfig()
	}
	data := cfg.NewApprovalData(student.Name)

	body, err := templates.RenderApprovalText(data)
	if err != nil {
		body = fmt.Sprintf("Hello %s,\n\nYour admission has been approved!", student.Name)
	}

	htmlBody, err := templates.RenderApprovalHTML(data)
	if err != nil {
		htmlBody = ""
	}

	return Notification{
		To:       student.Email,
		Subject:  data.Subject,
		Body:     body,
		HTMLBody: htmlBody,
	}
}
