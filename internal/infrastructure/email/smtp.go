package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/dll-community/billing/internal/shared/config"
	"github.com/dll-community/billing/internal/shared/logger"
)

// SMTPReminderSender delivers subscription expiry reminders over SMTP.
type SMTPReminderSender struct {
	config config.EmailConfig
	dialer *gomail.Dialer
	logger logger.Interface
}

func NewSMTPReminderSender(cfg config.EmailConfig, logger logger.Interface) *SMTPReminderSender {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)

	return &SMTPReminderSender{
		config: cfg,
		dialer: dialer,
		logger: logger,
	}
}

func (s *SMTPReminderSender) SendExpiryReminder(ctx context.Context, email, name, planName string, endDate time.Time) error {
	if name == "" {
		name = "there"
	}
	endDateStr := endDate.Format("02.01.2006")

	subject := fmt.Sprintf("Your %s subscription expires on %s", planName, endDateStr)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Expiring Soon</h2>
			<p>Hi %s,</p>
			<p>Your <strong>%s</strong> subscription ends on <strong>%s</strong>.</p>
			<p>Renew before the end date to keep your access without interruption.</p>
		</body>
		</html>
	`, name, planName, endDateStr)

	plainBody := fmt.Sprintf(`
Hi %s,

Your %s subscription ends on %s.

Renew before the end date to keep your access without interruption.
	`, name, planName, endDateStr)

	if err := s.sendEmail(email, subject, htmlBody, plainBody); err != nil {
		return err
	}

	s.logger.Infow("expiry reminder delivered", "email", email, "plan", planName, "end_date", endDateStr)
	return nil
}

func (s *SMTPReminderSender) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
