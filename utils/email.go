package utils

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/services"
)

// SMTPMailer sends HTML email through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// LogMailer writes email to the log instead of sending it.
type LogMailer struct {
	log logger.ILogger
}

func (m LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.Info("email not sent, SMTP is not configured", logger.String("to", to), logger.String("subject", subject))
	return nil
}

func NewMailer(cfg config.Config, log logger.ILogger) services.Mailer {
	if cfg.SMTPHost == "" || cfg.EmailUser == "" {
		return LogMailer{log: log}
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass),
		from:   cfg.EmailUser,
	}
}
