// internal/app/system/notify/smtp.go
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPConfig configures the SMTP email sender.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// SMTPSender sends email over plain SMTP (Mailpit in dev, SES in prod).
type SMTPSender struct {
	cfg SMTPConfig
	log *zap.Logger
}

// NewSMTPSender constructs an SMTPSender.
func NewSMTPSender(cfg SMTPConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// SendEmail sends msg to all recipients in one SMTP transaction.
// Attachments are not supported by the plain sender; exports attach a
// storage URL in the body instead.
func (s *SMTPSender) SendEmail(ctx context.Context, msg Message) error {
	if len(msg.Recipients) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.cfg.From, msg.Recipients, []byte(b.String()))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		s.log.Info("email sent",
			zap.Int("recipients", len(msg.Recipients)),
			zap.String("subject", msg.Subject))
		return nil
	}
}
