package repository

import (
	"context"

	"github.com/taxmantraa/backend/internal/model"
)

// DB reports whether the backing store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository persists contact form records.
type ContactRepository interface {
	// Create inserts c. c.ID and timestamps are assigned by the caller.
	Create(ctx context.Context, c *model.ContactRecord) error
	FindByID(ctx context.Context, id string) (*model.ContactRecord, error)
	// List returns one page, newest first, without ipAddress/userAgent, and the
	// total number of records matching the filter.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, int, error)
	// Update applies u and returns the updated record.
	Update(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error)
}

// ServiceInquiryRepository persists service inquiry records.
type ServiceInquiryRepository interface {
	Create(ctx context.Context, s *model.ServiceInquiryRecord) error
	FindByID(ctx context.Context, id string) (*model.ServiceInquiryRecord, error)
	List(ctx context.Context, opts model.ServiceInquiryListOptions) ([]*model.ServiceInquiryRecord, int, error)
	Update(ctx context.Context, id string, u model.ServiceInquiryUpdate) (*model.ServiceInquiryRecord, error)
}
