package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tradeapp "github.com/trycco/storefront/internal/application/trade"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestMailer(d dialSender) *SMTPMailer {
	return &SMTPMailer{dialer: d, from: "shop@example.com", fromName: "Trycco", logger: zap.NewNop()}
}

func TestSMTPMailer_Send(t *testing.T) {
	d := &fakeDialer{}
	m := newTestMailer(d)

	err := m.Send(context.Background(), tradeapp.Message{
		To:       []string{"ana@example.com"},
		Subject:  "Your order",
		HTMLBody: "<p>Thanks</p>",
		TextBody: "Thanks",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	assert.Equal(t, []string{"ana@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Your order"}, d.sent[0].GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = d.sent[0].WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "text/plain")
	assert.Contains(t, raw.String(), "text/html")
	assert.Contains(t, raw.String(), "Trycco")
}

func TestSMTPMailer_SendErrors(t *testing.T) {
	t.Run("no recipients", func(t *testing.T) {
		d := &fakeDialer{}
		assert.Error(t, newTestMailer(d).Send(context.Background(), tradeapp.Message{Subject: "x"}))
		assert.Empty(t, d.sent)
	})

	t.Run("relay failure", func(t *testing.T) {
		relayErr := errors.New("535 auth failed")
		err := newTestMailer(&fakeDialer{err: relayErr}).
			Send(context.Background(), tradeapp.Message{To: []string{"a@b.co"}, TextBody: "x"})
		assert.ErrorIs(t, err, relayErr)
		assert.NotContains(t, err.Error(), "a@b.co")
	})

	t.Run("context deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		err := newTestMailer(&fakeDialer{delay: 200 * time.Millisecond}).
			Send(ctx, tradeapp.Message{To: []string{"a@b.co"}, TextBody: "x"})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestNew(t *testing.T) {
	_, isLog := New(config.MailConfig{}, zap.NewNop()).(*LogMailer)
	assert.True(t, isLog)

	smtp, isSMTP := New(config.MailConfig{Enabled: true, Host: "smtp.example.com", Port: 465, SSL: true}, zap.NewNop()).(*SMTPMailer)
	require.True(t, isSMTP)
	dialer := smtp.dialer.(*gomail.Dialer)
	assert.Equal(t, "smtp.example.com", dialer.Host)
	assert.True(t, dialer.SSL)
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	msg := tradeapp.Message{
		To:       []string{"ana@example.com", "shop@example.com"},
		Subject:  "Hi",
		TextBody: "Ana Perez, +34 600 000 000",
		HTMLBody: "<p>Ana Perez</p>",
	}
	require.NoError(t, m.Send(context.Background(), msg))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "Hi", fields["subject"])
	assert.EqualValues(t, 2, fields["recipients"])
	assert.NotContains(t, fields, "to")
	assert.NotContains(t, fields, "body")
	assert.NotContains(t, fmt.Sprint(fields), "Ana Perez")
	assert.NotContains(t, fmt.Sprint(fields), "ana@example.com")
}
