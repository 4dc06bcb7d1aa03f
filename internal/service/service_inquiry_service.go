package service

import (
	"context"

	"github.com/taxmantraa/backend/internal/model"
)

// ServiceInquiryService defines the business logic for service inquiries.
type ServiceInquiryService interface {
	// Submit stores a new inquiry, assigning its ID and timestamps.
	Submit(ctx context.Context, s *model.ServiceInquiryRecord) error
	Get(ctx context.Context, id string) (*model.ServiceInquiryRecord, error)
	List(ctx context.Context, opts model.ServiceInquiryListOptions) ([]*model.ServiceInquiryRecord, int, error)
	Update(ctx context.Context, id string, u model.ServiceInquiryUpdate) (*model.ServiceInquiryRecord, error)
}
