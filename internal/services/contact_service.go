package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/email"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/logger"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

// DefaultContactSubject is used when the visitor leaves the subject blank.
const DefaultContactSubject = "General Inquiry"

// IContactService relays the site contact form to the operator mailbox.
type IContactService interface {
	SendContactForm(ctx context.Context, in models.ContactInput) error
}

type contactService struct {
	cfg    *config.Config
	sender email.Sender
}

// NewContactService creates a new ContactService.
func NewContactService(cfg *config.Config, sender email.Sender) IContactService {
	return &contactService{cfg: cfg, sender: sender}
}

// SendContactForm mails the form synchronously. Nothing is stored.
func (s *contactService) SendContactForm(ctx context.Context, in models.ContactInput) error {
	name := strings.TrimSpace(in.Name)
	from := strings.TrimSpace(in.Email)
	body := strings.TrimSpace(in.Message)
	if name == "" || from == "" || body == "" {
		return apperrors.New(apperrors.ErrValidation, "Name, email and message are required")
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = DefaultContactSubject
	}

	msg := email.ContactMessage(email.FromHeader(s.cfg.AppName, s.cfg.SmtpFromAddress), s.cfg.ContactRecipient, name, from, strings.TrimSpace(in.Phone), subject, body)
	if err := s.sender.Send(ctx, msg.To, msg.Subject, msg.Bytes()); err != nil {
		return apperrors.Wrap(apperrors.ErrDeliveryFailed, "Failed to send message", err)
	}

	logger.FromContext(ctx).Info("contact form relayed", zap.String("recipient", s.cfg.ContactRecipient))
	return nil
}
