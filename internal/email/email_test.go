package email

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	calls int
	err   error
}

func (r *recordingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	r.calls++
	return r.err
}

func TestCompositeEmailSender(t *testing.T) {
	t.Run("no senders", func(t *testing.T) {
		cs := NewCompositeEmailSender(nil)
		err := cs.Send(context.Background(), []string{"a@b.c"}, "s", nil)
		assert.ErrorIs(t, err, ErrNoSenders)
	})

	t.Run("all senders called and errors joined", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		defer zap.ReplaceGlobals(zap.New(core))()

		relayDown := errors.New("relay down")
		ok := &recordingSender{}
		bad := &recordingSender{err: relayDown}
		cs := NewCompositeEmailSender(ok, nil)
		cs.AddSender(bad)
		cs.AddSender(nil)

		err := cs.Send(context.Background(), []string{"ops@example.com"}, ContactSubjectPrefix+"Hi", []byte("x"))
		require.Error(t, err)
		assert.ErrorIs(t, err, relayDown)
		assert.Contains(t, err.Error(), "1 of 2")
		assert.Equal(t, 1, ok.calls)
		assert.Equal(t, 1, bad.calls)

		entries := logs.FilterMessage("email sender failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, string(KindContact), entries[0].ContextMap()["kind"])
	})

	t.Run("all succeed", func(t *testing.T) {
		a, b := &recordingSender{}, &recordingSender{}
		require.NoError(t, NewCompositeEmailSender(a, b).Send(context.Background(), []string{"a@b.c"}, "s", nil))
		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
	})
}

func TestFileEmailSender(t *testing.T) {
	_, err := NewFileEmailSender("  ")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "mail", "out.log")
	s, err := NewFileEmailSender(path)
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), []string{"agent@example.com"}, "hello", []byte("body text")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Subject: hello")
	assert.Contains(t, string(data), "body text")
}

func TestKindFromSubject(t *testing.T) {
	assert.Equal(t, KindContact, KindFromSubject(ContactSubjectPrefix+"Hi"))
	assert.Equal(t, KindNewInquiry, KindFromSubject(InquirySubjectPrefix+"Villa"))
	assert.Equal(t, KindUnknown, KindFromSubject("Weekly digest"))
	assert.Equal(t, "mockemail:agent@example.com:contact", MockEmailKey("Agent@Example.com", KindContact))
}

func TestContactMessage_Bytes(t *testing.T) {
	m := ContactMessage("noreply@site", "ops@site", "Sara", "sara@example.com", "0300", "Question\r\nBcc: evil@x", "line one\nline two")
	raw := string(m.Bytes())

	assert.Contains(t, raw, "From: noreply@site\r\n")
	assert.Contains(t, raw, "To: ops@site\r\n")
	assert.Contains(t, raw, "Reply-To: sara@example.com\r\n")
	assert.NotContains(t, raw, "\r\nBcc:")
	assert.Contains(t, raw, "line one\r\nline two")
	assert.Equal(t, KindContact, KindFromSubject(m.Subject))

	headers, _, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, headers, "MIME-Version: 1.0")
}

func TestInquiryMessage(t *testing.T) {
	m := InquiryMessage("noreply@site", "agent@site", "Ali", "Villa in DHA", "Sara", "sara@example.com", "0300", "Is it available?")
	assert.Equal(t, []string{"agent@site"}, m.To)
	assert.Equal(t, "New inquiry for Villa in DHA", m.Subject)
	assert.Contains(t, m.Body, "Is it available?")
}

func TestFromHeader(t *testing.T) {
	assert.Equal(t, "noreply@example.com", FromHeader("", "noreply@example.com"))
	assert.Equal(t, `"Zameen Homes" <noreply@example.com>`, FromHeader("Zameen Homes", "noreply@example.com"))
}
