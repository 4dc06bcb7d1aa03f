package service

import (
	"context"

	"github.com/taxmantraa/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores a new contact. ID, timestamps and derived fields
	// (priority, follow-up) are populated by the implementation.
	Submit(ctx context.Context, c *model.ContactRecord) error

	// Get returns the full contact, client metadata included.
	Get(ctx context.Context, id string) (*model.ContactRecord, error)

	// List returns one page of contacts and the total number matching opts.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, int, error)

	Update(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.ContactRecord, error)
	MarkAsRead(ctx context.Context, id string) (*model.ContactRecord, error)

	// MarkEmailSent and MarkAutoReplySent record successful notification delivery.
	MarkEmailSent(ctx context.Context, id string) error
	MarkAutoReplySent(ctx context.Context, id string) error
}
