package service

import (
	"context"

	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/google/uuid"
)

type AttachmentService struct {
	repos *repository.Repositories
	now   clock
}

func NewAttachmentService(repos *repository.Repositories, now clock) *AttachmentService {
	return &AttachmentService{repos: repos, now: now}
}

func (s *AttachmentService) List(ctx context.Context) ([]attachment.Attachment, error) {
	return s.repos.Attachments.List(ctx)
}

func (s *AttachmentService) GetByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	return s.repos.Attachments.GetByID(ctx, id)
}

func (s *AttachmentService) Create(ctx context.Context, payload *attachment.CreateAttachmentPayload) (*attachment.Attachment, error) {
	a := &attachment.Attachment{
		Base: model.NewBase(s.now()),
		URL:  payload.URL,
	}
	return s.repos.Attachments.Create(ctx, a)
}

func (s *AttachmentService) Update(ctx context.Context, payload *attachment.UpdateAttachmentPayload) (*attachment.Attachment, error) {
	var updated *attachment.Attachment

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repos.Attachments.GetByID(ctx, payload.AttachmentID())
		if err != nil {
			return err
		}

		payload.Apply(current)
		current.UpdatedAt = s.now().UTC()

		updated, err = s.repos.Attachments.Update(ctx, current)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete detaches the attachment from its meetings. Unknown ids are not an error.
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Attachments.Delete(ctx, id)
}
