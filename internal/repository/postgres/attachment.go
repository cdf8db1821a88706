package postgres

import (
	"context"
	"fmt"

	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attachmentColumns = `id, url, created_at, updated_at`

type AttachmentRepository struct {
	repo
}

func NewAttachmentRepository(db *database.Database) *AttachmentRepository {
	return &AttachmentRepository{repo{db: db}}
}

func (r *AttachmentRepository) List(ctx context.Context) ([]attachment.Attachment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+attachmentColumns+` FROM attachments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	attachments, err := pgx.CollectRows(rows, pgx.RowToStructByName[attachment.Attachment])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:attachments: %w", err)
	}
	return attachments, nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = @id`, pgx.NamedArgs{
		"id": id.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment by id=%s: %w", id, err)
	}

	a, err := collectOne[attachment.Attachment](rows, tableAttachments, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) (*attachment.Attachment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		INSERT INTO attachments (id, url, created_at, updated_at)
		VALUES (@id, @url, @created_at, @updated_at)
		RETURNING `+attachmentColumns, pgx.NamedArgs{
		"id":         a.ID.String(),
		"url":        a.URL,
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create attachment query: %w", err)
	}

	created, err := collectOne[attachment.Attachment](rows, tableAttachments, a.ID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *AttachmentRepository) Update(ctx context.Context, a *attachment.Attachment) (*attachment.Attachment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		UPDATE attachments
		SET url = @url, updated_at = @updated_at
		WHERE id = @id
		RETURNING `+attachmentColumns, pgx.NamedArgs{
		"id":         a.ID.String(),
		"url":        a.URL,
		"updated_at": a.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update attachment query: %w", err)
	}

	updated, err := collectOne[attachment.Attachment](rows, tableAttachments, a.ID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM attachments WHERE id = @id`, pgx.NamedArgs{"id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete attachment id=%s: %w", id, err)
	}
	return nil
}
