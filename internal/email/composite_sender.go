package email

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoSenders is returned when a composite has nothing to deliver through.
var ErrNoSenders = errors.New("no email senders configured")

// CompositeEmailSender fans a message out to every configured Sender, e.g.
// SMTP plus the LOG_EMAILS file mirror.
type CompositeEmailSender struct {
	senders []Sender
}

// NewCompositeEmailSender returns the concrete type so AddSender can be
// called directly. Nil senders are dropped.
func NewCompositeEmailSender(senders ...Sender) *CompositeEmailSender {
	cs := &CompositeEmailSender{}
	for _, s := range senders {
		cs.AddSender(s)
	}
	return cs
}

func (cs *CompositeEmailSender) AddSender(sender Sender) {
	if sender != nil {
		cs.senders = append(cs.senders, sender)
	}
}

// Send tries every sender even after one fails. Each failure is logged; the
// returned error joins them so callers can still errors.Is a cause.
func (cs *CompositeEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if len(cs.senders) == 0 {
		return ErrNoSenders
	}

	kind := KindFromSubject(subject)
	var errs []error
	for _, sender := range cs.senders {
		if err := sender.Send(ctx, to, subject, rawMessage); err != nil {
			zap.L().Warn("email sender failed",
				zap.String("sender", fmt.Sprintf("%T", sender)),
				zap.String("kind", string(kind)),
				zap.Strings("to", to),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sent through %d of %d senders: %w", len(cs.senders)-len(errs), len(cs.senders), errors.Join(errs...))
	}
	return nil
}
