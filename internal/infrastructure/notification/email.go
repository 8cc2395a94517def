package notification

import (
	"context"
	"fmt"

	"awn-booking/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// EmailSender delivers transactional emails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string
}

// NewEmailSender returns a SendGrid sender when an API key is configured
// and a log only sender otherwise.
func NewEmailSender(cfg config.MailConfig, log *logrus.Logger) EmailSender {
	if cfg.SendGridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY not set, emails will only be logged")
		return NewLogSender(log)
	}
	return &sendGridSender{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromAddress,
		fromName:  cfg.FromName,
		log:       log,
	}
}

type sendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *logrus.Logger
}

func (s *sendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	s.log.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject, "status": resp.StatusCode}).Info("Email sent")
	return nil
}

type logSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) EmailSender {
	return &logSender{log: log}
}

func (s *logSender) Send(ctx context.Context, msg EmailMessage) error {
	s.log.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("Email not sent, no provider configured")
	return nil
}
