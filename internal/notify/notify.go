// Package notify sends contact form notifications by email.
//
// Delivery is best effort: results are logged and recorded on the contact,
// never surfaced to the person who submitted the form.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/taxmantraa/backend/internal/config"
	"github.com/taxmantraa/backend/internal/model"
	"github.com/wneessen/go-mail"
	"golang.org/x/sync/errgroup"
)

// ErrNotConfigured is reported when SMTP credentials are missing.
var ErrNotConfigured = errors.New("email notifications not configured")

// DefaultTimeout bounds one detached dispatch, both sends included.
const DefaultTimeout = 60 * time.Second

// DeliveryResult is the outcome of one send.
type DeliveryResult struct {
	Success   bool
	MessageID string
	Err       error
}

// DeliveryMarker records successful deliveries on the contact.
type DeliveryMarker interface {
	MarkEmailSent(ctx context.Context, id string) error
	MarkAutoReplySent(ctx context.Context, id string) error
}

// Dispatcher renders and sends notification mail.
type Dispatcher struct {
	cfg       config.MailConfig
	transport Transport
	timeout   time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. A nil transport means SMTP with cfg.
func NewDispatcher(cfg config.MailConfig, transport Transport) *Dispatcher {
	if transport == nil {
		transport = NewSMTPTransport(cfg)
	}
	return &Dispatcher{
		cfg:       cfg,
		transport: transport,
		timeout:   DefaultTimeout,
		now:       time.Now,
	}
}

// Configured reports whether credentials are present.
func (d *Dispatcher) Configured() bool {
	return d.cfg.Username != "" && d.cfg.Password != ""
}

// NotifyOwner mails the site owner about a new contact. Replies go to the submitter.
func (d *Dispatcher) NotifyOwner(ctx context.Context, c *model.ContactRecord) DeliveryResult {
	if !d.Configured() {
		return DeliveryResult{Err: ErrNotConfigured}
	}
	body, err := ownerBody(c)
	if err != nil {
		return DeliveryResult{Err: err}
	}
	fromName := d.cfg.FromName
	if fromName == "" {
		fromName = defaultOwnerFromName
	}
	msg, err := newMessage(fromName, d.cfg.Username, d.cfg.Recipient(), ownerSubject(c.Name, d.now()), body)
	if err != nil {
		return DeliveryResult{Err: err}
	}
	if err := msg.ReplyTo(c.Email); err != nil {
		return DeliveryResult{Err: err}
	}
	return d.send(ctx, msg)
}

// NotifyUser sends the acknowledgement mail to the submitter.
func (d *Dispatcher) NotifyUser(ctx context.Context, email, name string) DeliveryResult {
	if !d.Configured() {
		return DeliveryResult{Err: ErrNotConfigured}
	}
	body, err := autoReplyBody(name)
	if err != nil {
		return DeliveryResult{Err: err}
	}
	fromName := d.cfg.FromName
	if fromName == "" {
		fromName = defaultReplyFromName
	}
	msg, err := newMessage(fromName, d.cfg.Username, email, autoReplySubject(name), body)
	if err != nil {
		return DeliveryResult{Err: err}
	}
	return d.send(ctx, msg)
}

func (d *Dispatcher) send(ctx context.Context, msg *mail.Msg) DeliveryResult {
	if err := d.transport.Send(ctx, msg); err != nil {
		return DeliveryResult{Err: err}
	}
	return DeliveryResult{Success: true, MessageID: messageID(msg)}
}

// Verify checks that the relay accepts the configured credentials.
func (d *Dispatcher) Verify(ctx context.Context) error {
	if !d.Configured() {
		return ErrNotConfigured
	}
	return d.transport.Verify(ctx)
}

// DispatchContact sends both notifications for c in the background and marks
// each successful delivery through marker. It returns immediately; the work
// keeps ctx's values but not its cancellation.
func (d *Dispatcher) DispatchContact(ctx context.Context, c *model.ContactRecord, marker DeliveryMarker) {
	contact := *c
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		d.deliver(ctx, &contact, marker)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, c *model.ContactRecord, marker DeliveryMarker) {
	if !d.Configured() {
		slog.WarnContext(ctx, "email notifications skipped", "contact_id", c.ID, "reason", Classify(ErrNotConfigured).Message)
		return
	}

	var owner, user DeliveryResult
	var g errgroup.Group
	g.Go(func() error {
		owner = d.NotifyOwner(ctx, c)
		if owner.Success {
			if err := marker.MarkEmailSent(ctx, c.ID); err != nil {
				slog.ErrorContext(ctx, "mark email sent failed", "contact_id", c.ID, "error", err)
			}
		}
		return nil
	})
	g.Go(func() error {
		user = d.NotifyUser(ctx, c.Email, c.Name)
		if user.Success {
			if err := marker.MarkAutoReplySent(ctx, c.ID); err != nil {
				slog.ErrorContext(ctx, "mark auto-reply sent failed", "contact_id", c.ID, "error", err)
			}
		}
		return nil
	})
	_ = g.Wait()

	logResult(ctx, "owner notification", c.ID, owner)
	logResult(ctx, "auto-reply", c.ID, user)
}

func logResult(ctx context.Context, kind, contactID string, r DeliveryResult) {
	if r.Success {
		slog.InfoContext(ctx, kind+" sent", "contact_id", contactID, "message_id", r.MessageID)
		return
	}
	f := Classify(r.Err)
	slog.WarnContext(ctx, kind+" failed",
		"contact_id", contactID,
		"error", r.Err,
		"reason", f.Message,
		"retryable", f.Retryable,
	)
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
