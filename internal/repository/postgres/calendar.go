package postgres

import (
	"context"
	"fmt"

	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const calendarColumns = `id, title, details, created_at, updated_at`

type calendarRow struct {
	model.Base
	Title   string `db:"title"`
	Details string `db:"details"`
}

func (row calendarRow) toModel() calendar.Calendar {
	return calendar.Calendar{Base: row.Base, Title: row.Title, Details: row.Details}
}

type calendarMeetingRow struct {
	CalendarID uuid.UUID `db:"calendar_id"`
	MeetingID  uuid.UUID `db:"meeting_id"`
}

type CalendarRepository struct {
	repo
}

func NewCalendarRepository(db *database.Database) *CalendarRepository {
	return &CalendarRepository{repo{db: db}}
}

func (r *CalendarRepository) List(ctx context.Context) ([]calendar.Calendar, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+calendarColumns+` FROM calendars ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	calendarRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[calendarRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:calendars: %w", err)
	}

	calendars := make([]calendar.Calendar, len(calendarRows))
	for i, row := range calendarRows {
		calendars[i] = row.toModel()
	}
	return calendars, nil
}

func (r *CalendarRepository) GetByID(ctx context.Context, id uuid.UUID) (*calendar.Calendar, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+calendarColumns+` FROM calendars WHERE id = @id`, pgx.NamedArgs{
		"id": id.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar by id=%s: %w", id, err)
	}

	row, err := collectOne[calendarRow](rows, tableCalendars, id)
	if err != nil {
		return nil, err
	}
	c := row.toModel()
	return &c, nil
}

func (r *CalendarRepository) Create(ctx context.Context, c *calendar.Calendar) (*calendar.Calendar, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		INSERT INTO calendars (id, title, details, created_at, updated_at)
		VALUES (@id, @title, @details, @created_at, @updated_at)
		RETURNING `+calendarColumns, pgx.NamedArgs{
		"id":         c.ID.String(),
		"title":      c.Title,
		"details":    c.Details,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create calendar query: %w", err)
	}

	row, err := collectOne[calendarRow](rows, tableCalendars, c.ID)
	if err != nil {
		return nil, err
	}
	created := row.toModel()
	return &created, nil
}

func (r *CalendarRepository) Update(ctx context.Context, c *calendar.Calendar) (*calendar.Calendar, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		UPDATE calendars
		SET title = @title, details = @details, updated_at = @updated_at
		WHERE id = @id
		RETURNING `+calendarColumns, pgx.NamedArgs{
		"id":         c.ID.String(),
		"title":      c.Title,
		"details":    c.Details,
		"updated_at": c.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update calendar query: %w", err)
	}

	row, err := collectOne[calendarRow](rows, tableCalendars, c.ID)
	if err != nil {
		return nil, err
	}
	updated := row.toModel()
	return &updated, nil
}

func (r *CalendarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM calendars WHERE id = @id`, pgx.NamedArgs{"id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete calendar id=%s: %w", id, err)
	}
	return nil
}

func (r *CalendarRepository) Lock(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.conn(ctx).Exec(ctx, `
		SELECT id FROM calendars
		WHERE id = ANY(@ids::uuid[])
		ORDER BY id
		FOR UPDATE`, pgx.NamedArgs{
		"ids": idArgs(ids),
	})
	if err != nil {
		return fmt.Errorf("failed to lock calendars: %w", err)
	}
	return nil
}

func (r *CalendarRepository) MeetingIDs(ctx context.Context, calendarIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(calendarIDs))
	if len(calendarIDs) == 0 {
		return out, nil
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT cm.calendar_id, cm.meeting_id
		FROM calendar_meetings cm
		JOIN meetings m ON m.id = cm.meeting_id
		WHERE cm.calendar_id = ANY(@ids::uuid[])
		ORDER BY m.created_at, m.id`, pgx.NamedArgs{
		"ids": idArgs(calendarIDs),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar meetings: %w", err)
	}

	links, err := pgx.CollectRows(rows, pgx.RowToStructByName[calendarMeetingRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:%s: %w", tableCalendarMeetings, err)
	}
	for _, link := range links {
		out[link.CalendarID] = append(out[link.CalendarID], link.MeetingID)
	}
	return out, nil
}

func (r *CalendarRepository) AddMeetings(ctx context.Context, id uuid.UUID, meetingIDs []uuid.UUID) error {
	if err := r.mustExist(ctx, tableCalendars, id); err != nil {
		return err
	}
	if len(meetingIDs) == 0 {
		return nil
	}

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO calendar_meetings (calendar_id, meeting_id)
		SELECT @calendar_id::uuid, m.id
		FROM meetings m
		WHERE m.id = ANY(@ids::uuid[])
		ON CONFLICT DO NOTHING`, pgx.NamedArgs{
		"calendar_id": id.String(),
		"ids":         idArgs(meetingIDs),
	})
	if err != nil {
		return fmt.Errorf("failed to add meetings to calendar id=%s: %w", id, err)
	}
	return nil
}

func (r *CalendarRepository) RemoveMeetings(ctx context.Context, id uuid.UUID, meetingIDs []uuid.UUID) error {
	if len(meetingIDs) == 0 {
		return nil
	}
	_, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM calendar_meetings
		WHERE calendar_id = @calendar_id AND meeting_id = ANY(@ids::uuid[])`, pgx.NamedArgs{
		"calendar_id": id.String(),
		"ids":         idArgs(meetingIDs),
	})
	if err != nil {
		return fmt.Errorf("failed to remove meetings from calendar id=%s: %w", id, err)
	}
	return nil
}

func (r *CalendarRepository) DeleteEmpty(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	deleted, err := r.collectIDs(ctx, `
		DELETE FROM calendars c
		WHERE c.id = ANY(@ids::uuid[])
			AND NOT EXISTS (SELECT 1 FROM calendar_meetings cm WHERE cm.calendar_id = c.id)
		RETURNING c.id`, pgx.NamedArgs{
		"ids": idArgs(ids),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete empty calendars: %w", err)
	}
	return deleted, nil
}
