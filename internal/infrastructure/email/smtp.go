// Package email delivers the notification emails: account validation,
// welcome and subscription confirmation. Templates are operator-editable
// rows with hardcoded fallbacks.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/meetscribe/meetscribe/internal/shared/config"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(to, subject, htmlBody, plainBody string) error
}

type SMTPSender struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg *config.EmailConfig) Sender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.FromAddress, s.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
