package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"go-portfolio-api/internal/config"
)

var ErrDisabled = errors.New("mail delivery is not configured")

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// sender is the part of gomail.Dialer the mailer uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	dialer sender
	logger zerolog.Logger
}

func NewSMTPMailer(cfg config.MailConfig, logger zerolog.Logger) *SMTPMailer {
	return newSMTPMailer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), logger)
}

func newSMTPMailer(dialer sender, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: dialer,
		logger: logger.With().Str("component", "smtp-mailer").Logger(),
	}
}

// Send gives up waiting when ctx ends. gomail has no cancellation, so a
// dial already in flight finishes in the background.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	result := make(chan error, 1)
	go func() { result <- m.dialer.DialAndSend(gm) }()

	select {
	case err := <-result:
		if err != nil {
			m.logger.Error().Err(err).Str("to", msg.To).Msg("smtp delivery failed")
			return fmt.Errorf("smtp send: %w", err)
		}
		m.logger.Info().Str("to", msg.To).Msg("mail sent")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disabled rejects every message. It stands in when no SMTP host is set.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error {
	return ErrDisabled
}

// New returns an SMTP mailer when configured, Disabled otherwise.
func New(cfg config.MailConfig, logger zerolog.Logger) Mailer {
	if !cfg.Enabled() {
		logger.Warn().Msg("SMTP not configured, contact messages will be rejected")
		return Disabled{}
	}
	return NewSMTPMailer(cfg, logger)
}
