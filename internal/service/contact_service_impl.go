package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taxmantraa/backend/internal/model"
	"github.com/taxmantraa/backend/internal/repository"
	"github.com/taxmantraa/backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo, now: time.Now}
}

// newRecordID returns a 24-hex ObjectID, the id format of every stored record.
func newRecordID() string {
	return primitive.NewObjectID().Hex()
}

func (s *contactServiceImpl) Submit(ctx context.Context, c *model.ContactRecord) error {
	now := s.now().UTC()
	if c.ID == "" {
		c.ID = newRecordID()
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	model.PrepareNewContact(c)

	if err := validation.CheckContact(c); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (s *contactServiceImpl) Get(ctx context.Context, id string) (*model.ContactRecord, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, int, error) {
	opts.Limit, opts.Offset = clampPage(opts.Limit, opts.Offset)
	contacts, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, total, nil
}

// Update applies a partial update. Raising priority to urgent schedules a
// follow-up unless one is already set.
func (s *contactServiceImpl) Update(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error) {
	if u.IsEmpty() {
		return nil, &validation.Errors{Messages: []string{"No fields to update"}}
	}
	if err := validation.CheckContactUpdate(u); err != nil {
		return nil, err
	}

	if u.Priority != nil && *u.Priority == model.PriorityUrgent && u.FollowUpDate == nil {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.FollowUpDate == nil {
			due := s.now().UTC().Add(model.FollowUpDelay)
			required := true
			u.FollowUpRequired = &required
			u.FollowUpDate = &due
		}
	}
	return s.repo.Update(ctx, id, u)
}

func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*model.ContactRecord, error) {
	return s.Update(ctx, id, model.ContactUpdate{Status: &status})
}

func (s *contactServiceImpl) MarkAsRead(ctx context.Context, id string) (*model.ContactRecord, error) {
	return s.UpdateStatus(ctx, id, model.ContactStatusRead)
}

func (s *contactServiceImpl) MarkEmailSent(ctx context.Context, id string) error {
	sent := true
	at := s.now().UTC()
	_, err := s.repo.Update(ctx, id, model.ContactUpdate{EmailSent: &sent, EmailSentAt: &at})
	return err
}

func (s *contactServiceImpl) MarkAutoReplySent(ctx context.Context, id string) error {
	sent := true
	at := s.now().UTC()
	_, err := s.repo.Update(ctx, id, model.ContactUpdate{AutoReplySent: &sent, AutoReplySentAt: &at})
	return err
}
