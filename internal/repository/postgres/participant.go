package postgres

import (
	"context"
	"fmt"

	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const participantColumns = `id, name, email, created_at, updated_at`

type ParticipantRepository struct {
	repo
}

func NewParticipantRepository(db *database.Database) *ParticipantRepository {
	return &ParticipantRepository{repo{db: db}}
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+participantColumns+` FROM participants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants, err := pgx.CollectRows(rows, pgx.RowToStructByName[participant.Participant])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:participants: %w", err)
	}
	return participants, nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = @id`, pgx.NamedArgs{
		"id": id.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get participant by id=%s: %w", id, err)
	}

	p, err := collectOne[participant.Participant](rows, tableParticipants, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParticipantRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]participant.Participant, error) {
	if len(ids) == 0 {
		return []participant.Participant{}, nil
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+participantColumns+`
		FROM participants
		WHERE id = ANY(@ids::uuid[])
		ORDER BY created_at, id`, pgx.NamedArgs{
		"ids": idArgs(ids),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get participants by ids: %w", err)
	}

	participants, err := pgx.CollectRows(rows, pgx.RowToStructByName[participant.Participant])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:participants: %w", err)
	}
	return participants, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) (*participant.Participant, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		INSERT INTO participants (id, name, email, created_at, updated_at)
		VALUES (@id, @name, @email, @created_at, @updated_at)
		RETURNING `+participantColumns, pgx.NamedArgs{
		"id":         p.ID.String(),
		"name":       p.Name,
		"email":      p.Email,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create participant query: %w", err)
	}

	created, err := collectOne[participant.Participant](rows, tableParticipants, p.ID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ParticipantRepository) Update(ctx context.Context, p *participant.Participant) (*participant.Participant, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		UPDATE participants
		SET name = @name, email = @email, updated_at = @updated_at
		WHERE id = @id
		RETURNING `+participantColumns, pgx.NamedArgs{
		"id":         p.ID.String(),
		"name":       p.Name,
		"email":      p.Email,
		"updated_at": p.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update participant query: %w", err)
	}

	updated, err := collectOne[participant.Participant](rows, tableParticipants, p.ID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM participants WHERE id = @id`, pgx.NamedArgs{"id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete participant id=%s: %w", id, err)
	}
	return nil
}

func (r *ParticipantRepository) MeetingIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	ids, err := r.collectIDs(ctx, `
		SELECT meeting_id FROM meeting_participants WHERE participant_id = @id`, pgx.NamedArgs{
		"id": id.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings of participant id=%s: %w", id, err)
	}
	return ids, nil
}
