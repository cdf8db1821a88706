package memory

import (
	"context"

	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/sqlerr"
	"github.com/google/uuid"
)

type AttachmentRepository struct {
	store *Store
}

func NewAttachmentRepository(store *Store) *AttachmentRepository {
	return &AttachmentRepository{store: store}
}

func attachmentKey(a attachment.Attachment) (int64, uuid.UUID) {
	return a.CreatedAt.UnixNano(), a.ID
}

func (st *state) attachmentsByIDs(ids []uuid.UUID) []attachment.Attachment {
	out := make([]attachment.Attachment, 0, len(ids))
	for _, id := range ids {
		if a, ok := st.attachments[id]; ok {
			out = append(out, a)
		}
	}
	sortByCreation(out, attachmentKey)
	return out
}

func (r *AttachmentRepository) List(ctx context.Context) ([]attachment.Attachment, error) {
	return run(ctx, r.store, func(st *state) ([]attachment.Attachment, error) {
		out := make([]attachment.Attachment, 0, len(st.attachments))
		for _, a := range st.attachments {
			out = append(out, a)
		}
		sortByCreation(out, attachmentKey)
		return out, nil
	})
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	return run(ctx, r.store, func(st *state) (*attachment.Attachment, error) {
		a, ok := st.attachments[id]
		if !ok {
			return nil, sqlerr.NotFound("attachments", id)
		}
		return &a, nil
	})
}

func (r *AttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) (*attachment.Attachment, error) {
	return run(ctx, r.store, func(st *state) (*attachment.Attachment, error) {
		st.attachments[a.ID] = *a
		created := *a
		return &created, nil
	})
}

func (r *AttachmentRepository) Update(ctx context.Context, a *attachment.Attachment) (*attachment.Attachment, error) {
	return run(ctx, r.store, func(st *state) (*attachment.Attachment, error) {
		current, ok := st.attachments[a.ID]
		if !ok {
			return nil, sqlerr.NotFound("attachments", a.ID)
		}
		updated := *a
		updated.CreatedAt = current.CreatedAt
		st.attachments[a.ID] = updated
		return &updated, nil
	})
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		delete(st.attachments, id)
		st.meetingAttachments.dropRight(id)
		return nil
	})
}
