package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/taxmantraa/backend/internal/config"
	"github.com/wneessen/go-mail"
)

// Transport delivers a single message.
type Transport interface {
	Send(ctx context.Context, msg *mail.Msg) error
	// Verify connects and authenticates without sending anything.
	Verify(ctx context.Context) error
}

// SMTPTransport opens a fresh SMTP connection for every call.
type SMTPTransport struct {
	cfg     config.MailConfig
	timeout time.Duration
}

// NewSMTPTransport creates an SMTPTransport for the given relay settings.
func NewSMTPTransport(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg, timeout: 30 * time.Second}
}

func (t *SMTPTransport) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.cfg.Username),
		mail.WithPassword(t.cfg.Password),
		mail.WithTimeout(t.timeout),
	}
	if t.cfg.Port == 465 {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	opts = append(opts, mail.WithPort(t.cfg.Port))

	c, err := mail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return c, nil
}

// Send dials, authenticates and transmits msg, closing the connection afterwards.
func (t *SMTPTransport) Send(ctx context.Context, msg *mail.Msg) error {
	c, err := t.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Send(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (t *SMTPTransport) Verify(ctx context.Context) error {
	c, err := t.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	return c.Close()
}
