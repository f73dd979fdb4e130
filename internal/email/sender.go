package email

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
)

// Sender defines the interface for sending emails.
// The rawMessage parameter should contain the full email message, including headers and body, properly formatted.
type Sender interface {
	Send(ctx context.Context, to []string, subject string, rawMessage []byte) error
}

// SMTPSender implements the Sender interface using Go's net/smtp package.
type SMTPSender struct {
	cfg  *config.Config
	auth smtp.Auth
	addr string
}

// NewSMTPSender creates a new SMTPSender, or a LoggingSender when no SMTP host is configured.
func NewSMTPSender(cfg *config.Config) Sender {
	if cfg.SmtpHost == "" {
		zap.L().Warn("SMTP host not configured, using logging email sender")
		return &LoggingSender{cfg: cfg}
	}

	return &SMTPSender{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.SmtpUsername, cfg.SmtpPassword, cfg.SmtpHost),
		addr: fmt.Sprintf("%s:%d", cfg.SmtpHost, cfg.SmtpPort),
	}
}

// Send sends an email using SMTP. The relay is contacted once; failures are
// returned to the caller as-is.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if err := smtp.SendMail(s.addr, s.auth, s.cfg.SmtpFromAddress, to, rawMessage); err != nil {
		zap.L().Error("failed to send email via SMTP", zap.Strings("to", to), zap.Error(err))
		return fmt.Errorf("smtp error: %w", err)
	}
	zap.L().Info("email sent via SMTP", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}

// LoggingSender just logs email details. Used for development or when SMTP isn't configured.
type LoggingSender struct {
	cfg *config.Config
}

func (s *LoggingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	zap.L().Info("email (logged, not sent)",
		zap.Strings("to", to),
		zap.String("from", s.cfg.SmtpFromAddress),
		zap.String("subject", subject),
		zap.ByteString("raw", rawMessage),
	)
	return nil
}
