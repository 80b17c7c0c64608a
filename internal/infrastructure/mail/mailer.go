// Package mail delivers transactional email over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"

	tradeapp "github.com/trycco/storefront/internal/application/trade"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// dialSender is satisfied by *gomail.Dialer.
type dialSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends multipart (plain text plus HTML) messages through an SMTP relay.
type SMTPMailer struct {
	dialer   dialSender
	from     string
	fromName string
	logger   *zap.Logger
}

// NewSMTPMailer creates a mailer from the mail configuration.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	return &SMTPMailer{
		dialer:   d,
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

// Send delivers msg. gomail has no context support, so the dial runs in its
// own goroutine and Send returns as soon as ctx ends; the dial itself is
// abandoned, not interrupted.
func (m *SMTPMailer) Send(ctx context.Context, msg tradeapp.Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}
	gm := m.build(msg)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(gm)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: send %q: %w", msg.Subject, err)
		}
		m.logger.Debug("mail sent", zap.Int("recipients", len(msg.To)), zap.String("subject", msg.Subject))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail: send %q: %w", msg.Subject, ctx.Err())
	}
}

func (m *SMTPMailer) build(msg tradeapp.Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		gm.SetBody("text/plain", msg.TextBody)
		gm.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		gm.SetBody("text/html", msg.HTMLBody)
	default:
		gm.SetBody("text/plain", msg.TextBody)
	}
	return gm
}

// LogMailer records that a message would have been sent. Addresses and bodies
// carry customer data and are never logged. It is used when SMTP is disabled.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg tradeapp.Message) error {
	m.logger.Info("mail delivery disabled, message dropped",
		zap.Int("recipients", len(msg.To)),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// New returns the SMTP mailer when mail is enabled and the log mailer otherwise.
func New(cfg config.MailConfig, logger *zap.Logger) tradeapp.Mailer {
	if !cfg.Enabled {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg, logger)
}

var (
	_ tradeapp.Mailer = (*SMTPMailer)(nil)
	_ tradeapp.Mailer = (*LogMailer)(nil)
)
