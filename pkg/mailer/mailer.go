package mailer

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/michalwarchol/slash-api/config"
)

// Mailer sends transactional mail over SMTP. Both flows are code based: the
// recipient proves ownership of the mailbox with a short-lived 6-digit code.
type Mailer interface {
	SendActivationCode(to, firstName, code string) error
	SendPasswordChangeCode(to, firstName, code string) error
}

// SMTPMailer implements Mailer with gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPMailer builds a Mailer from mail config.
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("send mail failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// SendActivationCode mails the account activation code.
func (m *SMTPMailer) SendActivationCode(to, firstName, code string) error {
	return m.send(to, "Weryfikacja email", activationTemplatePl(firstName, code))
}

// SendPasswordChangeCode mails the password-change confirmation code.
func (m *SMTPMailer) SendPasswordChangeCode(to, firstName, code string) error {
	return m.send(to, "Password change in Slash service", passwordChangeTemplateEn(firstName, code))
}
