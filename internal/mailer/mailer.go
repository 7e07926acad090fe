package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned by Send when no SMTP transport is configured.
var ErrNotConfigured = errors.New("mail transport not configured")

// Mailer sends outbound email. Implementations must be safe for
// concurrent use; the notification path calls Send from its own goroutine.
type Mailer interface {
	// Send delivers a single HTML email. Returns ErrNotConfigured when no
	// transport is available.
	Send(ctx context.Context, to, subject, htmlBody string) error

	// Configured reports whether a transport is available. Callers that
	// treat missing configuration as a hard error (the reply path) check
	// this before composing.
	Configured() bool
}

// Config carries the SMTP transport settings. Host and From empty means
// the mailer runs unconfigured: notifications are skipped, replies fail
// with ErrNotConfigured.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer is the production Mailer backed by an SMTP server.
type SMTPMailer struct {
	cfg    Config
	client *mail.Client
}

// NewSMTPMailer creates an SMTPMailer from cfg. An incomplete cfg is not
// an error; the returned mailer simply reports Configured() == false.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	m := &SMTPMailer{cfg: cfg}
	if cfg.Host == "" || cfg.From == "" {
		return m, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	m.client = client
	return m, nil
}

// Ensure SMTPMailer implements Mailer at compile time.
var _ Mailer = (*SMTPMailer)(nil)

// Configured reports whether an SMTP transport was set up.
func (m *SMTPMailer) Configured() bool {
	return m.client != nil
}

// Send delivers a single HTML email through the configured SMTP server.
// The call blocks until the server accepts or rejects the message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.client == nil {
		return ErrNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
