package smtp

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/fitness-hub/core/internal/config"
	"github.com/fitness-hub/core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_BuildsMultipartMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: "1025", MailFrom: "Fitness Hub <onboarding@resend.dev>"})
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), domain.Email{To: "a@b.com", Subject: "Code", HTML: "<b>123456</b>", Text: "123456"})
	require.NoError(t, err)

	assert.Equal(t, "localhost:1025", gotAddr)
	assert.Equal(t, "onboarding@resend.dev", gotFrom)
	assert.Equal(t, []string{"a@b.com"}, gotTo)
	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Code\r\n")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "text/plain; charset=UTF-8")
	assert.Contains(t, body, "<b>123456</b>")
	assert.Less(t, strings.Index(body, "text/plain"), strings.Index(body, "text/html"))
}

func TestSend_Error(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: "1025"})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }

	err := m.Send(context.Background(), domain.Email{To: "a@b.com"})
	assert.ErrorContains(t, err, "smtp send")
}

func TestSend_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMailer(&config.Config{})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}
	assert.ErrorIs(t, m.Send(ctx, domain.Email{To: "a@b.com"}), context.Canceled)
}

func TestEnvelopeAddress(t *testing.T) {
	assert.Equal(t, "x@y.z", envelopeAddress("Name <x@y.z>"))
	assert.Equal(t, "x@y.z", envelopeAddress("x@y.z"))
}
