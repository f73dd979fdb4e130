package email

import (
	"bytes"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"
)

// Kind classifies outgoing mail.
type Kind string

const (
	KindContact    Kind = "contact"
	KindNewInquiry Kind = "new_inquiry"
	KindUnknown    Kind = "unknown"
)

const (
	ContactSubjectPrefix = "New Contact Form Submission: "
	InquirySubjectPrefix = "New inquiry for "
)

// KindFromSubject recovers the mail kind from a subject built by this package.
func KindFromSubject(subject string) Kind {
	switch {
	case strings.HasPrefix(subject, ContactSubjectPrefix):
		return KindContact
	case strings.HasPrefix(subject, InquirySubjectPrefix):
		return KindNewInquiry
	}
	return KindUnknown
}

// Message is a plain-text email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Bytes renders the message as RFC 5322 text with CRLF line endings.
func (m *Message) Bytes() []byte {
	var buf bytes.Buffer
	header := func(k, v string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
	}
	header("From", m.From)
	header("To", strings.Join(m.To, ", "))
	if m.ReplyTo != "" {
		header("Reply-To", m.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	header("Date", time.Now().UTC().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=\"utf-8\"")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(m.Body, "\r\n", "\n"), "\n", "\r\n"))
	return buf.Bytes()
}

// FromHeader renders the From value, with the display name when one is set.
func FromHeader(name, address string) string {
	if name = stripHeaderBreaks(name); name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

// stripHeaderBreaks keeps user input from injecting extra headers.
func stripHeaderBreaks(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(s))
}

// ContactMessage formats the site contact form for the operator mailbox.
func ContactMessage(from, to, name, senderEmail, phone, subject, body string) *Message {
	subject = stripHeaderBreaks(subject)
	return &Message{
		From:    from,
		To:      []string{to},
		ReplyTo: stripHeaderBreaks(senderEmail),
		Subject: ContactSubjectPrefix + subject,
		Body: fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nSubject: %s\nMessage: %s\n",
			name, senderEmail, phone, subject, body),
	}
}

// InquiryMessage formats the notification an agent receives for a new inquiry.
func InquiryMessage(from, agentEmail, agentName, propertyTitle, senderName, senderEmail, senderPhone, body string) *Message {
	return &Message{
		From:    from,
		To:      []string{agentEmail},
		ReplyTo: stripHeaderBreaks(senderEmail),
		Subject: InquirySubjectPrefix + stripHeaderBreaks(propertyTitle),
		Body: fmt.Sprintf("Hello %s,\n\n%s has sent an inquiry about \"%s\".\n\nEmail: %s\nPhone: %s\n\n%s\n",
			agentName, senderName, propertyTitle, senderEmail, senderPhone, body),
	}
}
