package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const meetingColumns = `id, title, date_time, location, details, created_at, updated_at`

type meetingRow struct {
	ID        uuid.UUID  `db:"id"`
	Title     string     `db:"title"`
	DateTime  *time.Time `db:"date_time"`
	Location  string     `db:"location"`
	Details   string     `db:"details"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (row meetingRow) toModel() meeting.Meeting {
	m := meeting.Meeting{
		Base: model.Base{
			BaseWithID:        model.BaseWithID{ID: row.ID},
			BaseWithCreatedAt: model.BaseWithCreatedAt{CreatedAt: row.CreatedAt},
			BaseWithUpdatedAt: model.BaseWithUpdatedAt{UpdatedAt: row.UpdatedAt},
		},
		Title:    row.Title,
		Location: row.Location,
		Details:  row.Details,
	}
	if row.DateTime != nil {
		dt := model.NewDateTime(*row.DateTime)
		m.DateTime = &dt
	}
	return m
}

func dateTimeArg(dt *model.DateTime) *time.Time {
	if dt == nil {
		return nil
	}
	t := dt.Time
	return &t
}

type meetingParticipantRow struct {
	MeetingID uuid.UUID `db:"meeting_id"`
	participant.Participant
}

type meetingAttachmentRow struct {
	MeetingID uuid.UUID `db:"meeting_id"`
	attachment.Attachment
}

type meetingCalendarRow struct {
	MeetingID  uuid.UUID `db:"meeting_id"`
	CalendarID uuid.UUID `db:"calendar_id"`
}

type MeetingRepository struct {
	repo
}

func NewMeetingRepository(db *database.Database) *MeetingRepository {
	return &MeetingRepository{repo{db: db}}
}

func (r *MeetingRepository) queryMeetings(ctx context.Context, stmt string, args ...any) ([]meeting.Meeting, error) {
	rows, err := r.conn(ctx).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}

	meetingRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[meetingRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:meetings: %w", err)
	}

	meetings := make([]meeting.Meeting, len(meetingRows))
	for i, row := range meetingRows {
		meetings[i] = row.toModel()
	}

	if err := r.loadRelations(ctx, meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// loadRelations fills participants, attachments and calendar ids with one
// query per relation.
func (r *MeetingRepository) loadRelations(ctx context.Context, meetings []meeting.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]*meeting.Meeting, len(meetings))
	ids := make([]uuid.UUID, len(meetings))
	for i := range meetings {
		meetings[i].EnsureRelations()
		index[meetings[i].ID] = &meetings[i]
		ids[i] = meetings[i].ID
	}
	args := pgx.NamedArgs{"ids": idArgs(ids)}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT mp.meeting_id, p.id, p.name, p.email, p.created_at, p.updated_at
		FROM meeting_participants mp
		JOIN participants p ON p.id = mp.participant_id
		WHERE mp.meeting_id = ANY(@ids::uuid[])
		ORDER BY p.created_at, p.id`, args)
	if err != nil {
		return fmt.Errorf("failed to query meeting participants: %w", err)
	}
	participantRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[meetingParticipantRow])
	if err != nil {
		return fmt.Errorf("failed to collect rows from table:meeting_participants: %w", err)
	}
	for _, row := range participantRows {
		m := index[row.MeetingID]
		m.Participants = append(m.Participants, row.Participant)
	}

	rows, err = r.conn(ctx).Query(ctx, `
		SELECT ma.meeting_id, a.id, a.url, a.created_at, a.updated_at
		FROM meeting_attachments ma
		JOIN attachments a ON a.id = ma.attachment_id
		WHERE ma.meeting_id = ANY(@ids::uuid[])
		ORDER BY a.created_at, a.id`, args)
	if err != nil {
		return fmt.Errorf("failed to query meeting attachments: %w", err)
	}
	attachmentRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[meetingAttachmentRow])
	if err != nil {
		return fmt.Errorf("failed to collect rows from table:meeting_attachments: %w", err)
	}
	for _, row := range attachmentRows {
		m := index[row.MeetingID]
		m.Attachments = append(m.Attachments, row.Attachment)
	}

	rows, err = r.conn(ctx).Query(ctx, `
		SELECT cm.meeting_id, cm.calendar_id
		FROM calendar_meetings cm
		JOIN calendars c ON c.id = cm.calendar_id
		WHERE cm.meeting_id = ANY(@ids::uuid[])
		ORDER BY c.created_at, c.id`, args)
	if err != nil {
		return fmt.Errorf("failed to query meeting calendars: %w", err)
	}
	calendarRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[meetingCalendarRow])
	if err != nil {
		return fmt.Errorf("failed to collect rows from table:calendar_meetings: %w", err)
	}
	for _, row := range calendarRows {
		m := index[row.MeetingID]
		m.CalendarIDs = append(m.CalendarIDs, row.CalendarID)
	}

	return nil
}

func (r *MeetingRepository) List(ctx context.Context) ([]meeting.Meeting, error) {
	return r.queryMeetings(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY created_at, id`)
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = @id`, pgx.NamedArgs{
		"id": id.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting by id=%s: %w", id, err)
	}

	row, err := collectOne[meetingRow](rows, tableMeetings, id)
	if err != nil {
		return nil, err
	}
	return r.withRelations(ctx, row)
}

func (r *MeetingRepository) withRelations(ctx context.Context, row meetingRow) (*meeting.Meeting, error) {
	meetings := []meeting.Meeting{row.toModel()}
	if err := r.loadRelations(ctx, meetings); err != nil {
		return nil, err
	}
	return &meetings[0], nil
}

func (r *MeetingRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]meeting.Meeting, error) {
	if len(ids) == 0 {
		return []meeting.Meeting{}, nil
	}
	return r.queryMeetings(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings
		WHERE id = ANY(@ids::uuid[])
		ORDER BY created_at, id`, pgx.NamedArgs{"ids": idArgs(ids)})
}

func (r *MeetingRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	existing, err := r.collectIDs(ctx, `SELECT id FROM meetings WHERE id = ANY(@ids::uuid[])`, pgx.NamedArgs{
		"ids": idArgs(ids),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter existing meetings: %w", err)
	}
	return existing, nil
}

func (r *MeetingRepository) Create(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		INSERT INTO meetings (id, title, date_time, location, details, created_at, updated_at)
		VALUES (@id, @title, @date_time, @location, @details, @created_at, @updated_at)
		RETURNING `+meetingColumns, pgx.NamedArgs{
		"id":         m.ID.String(),
		"title":      m.Title,
		"date_time":  dateTimeArg(m.DateTime),
		"location":   m.Location,
		"details":    m.Details,
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create meeting query: %w", err)
	}

	row, err := collectOne[meetingRow](rows, tableMeetings, m.ID)
	if err != nil {
		return nil, err
	}

	created := row.toModel()
	created.EnsureRelations()
	return &created, nil
}

func (r *MeetingRepository) Update(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		UPDATE meetings
		SET title = @title,
			date_time = @date_time,
			location = @location,
			details = @details,
			updated_at = @updated_at
		WHERE id = @id
		RETURNING `+meetingColumns, pgx.NamedArgs{
		"id":         m.ID.String(),
		"title":      m.Title,
		"date_time":  dateTimeArg(m.DateTime),
		"location":   m.Location,
		"details":    m.Details,
		"updated_at": m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update meeting query: %w", err)
	}

	row, err := collectOne[meetingRow](rows, tableMeetings, m.ID)
	if err != nil {
		return nil, err
	}
	return r.withRelations(ctx, row)
}

// Delete relies on ON DELETE CASCADE to drop the join rows.
func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM meetings WHERE id = @id`, pgx.NamedArgs{"id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete meeting id=%s: %w", id, err)
	}
	return nil
}

func (r *MeetingRepository) CalendarIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	ids, err := r.collectIDs(ctx, `SELECT calendar_id FROM calendar_meetings WHERE meeting_id = @id`, pgx.NamedArgs{
		"id": id.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars of meeting id=%s: %w", id, err)
	}
	return ids, nil
}

func (r *MeetingRepository) WithoutParticipants(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	empty, err := r.collectIDs(ctx, `
		SELECT m.id
		FROM meetings m
		WHERE m.id = ANY(@ids::uuid[])
			AND NOT EXISTS (SELECT 1 FROM meeting_participants mp WHERE mp.meeting_id = m.id)`, pgx.NamedArgs{
		"ids": idArgs(ids),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find meetings without participants: %w", err)
	}
	return empty, nil
}

func (r *MeetingRepository) AddParticipants(ctx context.Context, id uuid.UUID, participantIDs []uuid.UUID) ([]uuid.UUID, error) {
	if err := r.mustExist(ctx, tableMeetings, id); err != nil {
		return nil, err
	}
	if len(participantIDs) == 0 {
		return nil, nil
	}

	added, err := r.collectIDs(ctx, `
		INSERT INTO meeting_participants (meeting_id, participant_id)
		SELECT @meeting_id::uuid, p.id
		FROM participants p
		WHERE p.id = ANY(@ids::uuid[])
		ON CONFLICT DO NOTHING
		RETURNING participant_id`, pgx.NamedArgs{
		"meeting_id": id.String(),
		"ids":        idArgs(participantIDs),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add participants to meeting id=%s: %w", id, err)
	}
	return added, nil
}

func (r *MeetingRepository) RemoveParticipants(ctx context.Context, id uuid.UUID, participantIDs []uuid.UUID) error {
	return r.unlink(ctx, tableMeetingParticipants, "participant_id", id, participantIDs)
}

func (r *MeetingRepository) AddAttachments(ctx context.Context, id uuid.UUID, attachmentIDs []uuid.UUID) error {
	if err := r.mustExist(ctx, tableMeetings, id); err != nil {
		return err
	}
	if len(attachmentIDs) == 0 {
		return nil
	}

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO meeting_attachments (meeting_id, attachment_id)
		SELECT @meeting_id::uuid, a.id
		FROM attachments a
		WHERE a.id = ANY(@ids::uuid[])
		ON CONFLICT DO NOTHING`, pgx.NamedArgs{
		"meeting_id": id.String(),
		"ids":        idArgs(attachmentIDs),
	})
	if err != nil {
		return fmt.Errorf("failed to add attachments to meeting id=%s: %w", id, err)
	}
	return nil
}

func (r *MeetingRepository) RemoveAttachments(ctx context.Context, id uuid.UUID, attachmentIDs []uuid.UUID) error {
	return r.unlink(ctx, tableMeetingAttachments, "attachment_id", id, attachmentIDs)
}

func (r *MeetingRepository) unlink(ctx context.Context, table, column string, id uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE meeting_id = @meeting_id AND %s = ANY(@ids::uuid[])`, table, column)
	if _, err := r.conn(ctx).Exec(ctx, stmt, pgx.NamedArgs{
		"meeting_id": id.String(),
		"ids":        idArgs(ids),
	}); err != nil {
		return fmt.Errorf("failed to remove rows from table:%s for meeting id=%s: %w", table, id, err)
	}
	return nil
}
