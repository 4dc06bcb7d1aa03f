package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taxmantraa/backend/internal/model"
	"github.com/taxmantraa/backend/internal/repository"
	"github.com/taxmantraa/backend/internal/validation"
)

type serviceInquiryServiceImpl struct {
	repo repository.ServiceInquiryRepository
	now  func() time.Time
}

// NewServiceInquiryService creates a ServiceInquiryService backed by the given repository.
func NewServiceInquiryService(repo repository.ServiceInquiryRepository) ServiceInquiryService {
	return &serviceInquiryServiceImpl{repo: repo, now: time.Now}
}

func (s *serviceInquiryServiceImpl) Submit(ctx context.Context, inq *model.ServiceInquiryRecord) error {
	now := s.now().UTC()
	if inq.ID == "" {
		inq.ID = newRecordID()
	}
	inq.CreatedAt = now
	inq.UpdatedAt = now
	model.ApplyInquiryDefaults(inq)

	if err := validation.CheckServiceInquiry(inq); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, inq); err != nil {
		return fmt.Errorf("create service inquiry: %w", err)
	}
	return nil
}

func (s *serviceInquiryServiceImpl) Get(ctx context.Context, id string) (*model.ServiceInquiryRecord, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *serviceInquiryServiceImpl) List(ctx context.Context, opts model.ServiceInquiryListOptions) ([]*model.ServiceInquiryRecord, int, error) {
	opts.Limit, opts.Offset = clampPage(opts.Limit, opts.Offset)
	inquiries, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list service inquiries: %w", err)
	}
	return inquiries, total, nil
}

func (s *serviceInquiryServiceImpl) Update(ctx context.Context, id string, u model.ServiceInquiryUpdate) (*model.ServiceInquiryRecord, error) {
	if u.IsEmpty() {
		return nil, &validation.Errors{Messages: []string{"No fields to update"}}
	}
	if err := validation.CheckServiceInquiryUpdate(u); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, u)
}
