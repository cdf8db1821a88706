package memory

import (
	"context"

	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/sqlerr"
	"github.com/google/uuid"
)

type MeetingRepository struct {
	store *Store
}

func NewMeetingRepository(store *Store) *MeetingRepository {
	return &MeetingRepository{store: store}
}

func meetingKey(m meeting.Meeting) (int64, uuid.UUID) {
	return m.CreatedAt.UnixNano(), m.ID
}

// withRelations returns a copy of the stored meeting with its relations loaded.
func (st *state) withRelations(m meeting.Meeting) meeting.Meeting {
	m.Participants = st.participantsByIDs(st.meetingParticipants.left[m.ID].ids())
	m.Attachments = st.attachmentsByIDs(st.meetingAttachments.left[m.ID].ids())

	calendarIDs := st.calendarMeetings.right[m.ID].ids()
	calendars := make([]calendarEntry, 0, len(calendarIDs))
	for _, id := range calendarIDs {
		if c, ok := st.calendars[id]; ok {
			calendars = append(calendars, calendarEntry{id: id, createdAt: c.CreatedAt.UnixNano()})
		}
	}
	sortByCreation(calendars, func(c calendarEntry) (int64, uuid.UUID) { return c.createdAt, c.id })
	m.CalendarIDs = make([]uuid.UUID, 0, len(calendars))
	for _, c := range calendars {
		m.CalendarIDs = append(m.CalendarIDs, c.id)
	}

	m.EnsureRelations()
	return m
}

type calendarEntry struct {
	id        uuid.UUID
	createdAt int64
}

func (st *state) meetingsByIDs(ids []uuid.UUID) []meeting.Meeting {
	out := make([]meeting.Meeting, 0, len(ids))
	for _, id := range ids {
		if m, ok := st.meetings[id]; ok {
			out = append(out, st.withRelations(m))
		}
	}
	sortByCreation(out, meetingKey)
	return out
}

func (r *MeetingRepository) List(ctx context.Context) ([]meeting.Meeting, error) {
	return run(ctx, r.store, func(st *state) ([]meeting.Meeting, error) {
		out := make([]meeting.Meeting, 0, len(st.meetings))
		for _, m := range st.meetings {
			out = append(out, st.withRelations(m))
		}
		sortByCreation(out, meetingKey)
		return out, nil
	})
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error) {
	return run(ctx, r.store, func(st *state) (*meeting.Meeting, error) {
		m, ok := st.meetings[id]
		if !ok {
			return nil, sqlerr.NotFound("meetings", id)
		}
		loaded := st.withRelations(m)
		return &loaded, nil
	})
}

func (r *MeetingRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]meeting.Meeting, error) {
	return run(ctx, r.store, func(st *state) ([]meeting.Meeting, error) {
		return st.meetingsByIDs(ids), nil
	})
}

func (r *MeetingRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return run(ctx, r.store, func(st *state) ([]uuid.UUID, error) {
		var out []uuid.UUID
		for _, id := range ids {
			if _, ok := st.meetings[id]; ok {
				out = append(out, id)
			}
		}
		return out, nil
	})
}

// stripRelations keeps only the columns a meetings row holds.
func stripRelations(m meeting.Meeting) meeting.Meeting {
	m.Participants = nil
	m.Attachments = nil
	m.CalendarIDs = nil
	return m
}

func (r *MeetingRepository) Create(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	return run(ctx, r.store, func(st *state) (*meeting.Meeting, error) {
		st.meetings[m.ID] = stripRelations(*m)
		created := st.withRelations(st.meetings[m.ID])
		return &created, nil
	})
}

func (r *MeetingRepository) Update(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	return run(ctx, r.store, func(st *state) (*meeting.Meeting, error) {
		current, ok := st.meetings[m.ID]
		if !ok {
			return nil, sqlerr.NotFound("meetings", m.ID)
		}
		row := stripRelations(*m)
		row.CreatedAt = current.CreatedAt
		st.meetings[m.ID] = row
		updated := st.withRelations(row)
		return &updated, nil
	})
}

func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		delete(st.meetings, id)
		st.meetingParticipants.dropLeft(id)
		st.meetingAttachments.dropLeft(id)
		st.calendarMeetings.dropRight(id)
		return nil
	})
}

func (r *MeetingRepository) CalendarIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return run(ctx, r.store, func(st *state) ([]uuid.UUID, error) {
		return st.calendarMeetings.right[id].ids(), nil
	})
}

func (r *MeetingRepository) WithoutParticipants(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return run(ctx, r.store, func(st *state) ([]uuid.UUID, error) {
		var out []uuid.UUID
		for _, id := range ids {
			if _, ok := st.meetings[id]; ok && st.meetingParticipants.left[id].len() == 0 {
				out = append(out, id)
			}
		}
		return out, nil
	})
}

func (r *MeetingRepository) AddParticipants(ctx context.Context, id uuid.UUID, participantIDs []uuid.UUID) ([]uuid.UUID, error) {
	return run(ctx, r.store, func(st *state) ([]uuid.UUID, error) {
		if _, ok := st.meetings[id]; !ok {
			return nil, sqlerr.NotFound("meetings", id)
		}
		var added []uuid.UUID
		for _, pid := range participantIDs {
			if _, ok := st.participants[pid]; !ok {
				continue
			}
			if st.meetingParticipants.link(id, pid) {
				added = append(added, pid)
			}
		}
		return added, nil
	})
}

func (r *MeetingRepository) RemoveParticipants(ctx context.Context, id uuid.UUID, participantIDs []uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		for _, pid := range participantIDs {
			st.meetingParticipants.unlink(id, pid)
		}
		return nil
	})
}

func (r *MeetingRepository) AddAttachments(ctx context.Context, id uuid.UUID, attachmentIDs []uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		if _, ok := st.meetings[id]; !ok {
			return sqlerr.NotFound("meetings", id)
		}
		for _, aid := range attachmentIDs {
			if _, ok := st.attachments[aid]; ok {
				st.meetingAttachments.link(id, aid)
			}
		}
		return nil
	})
}

func (r *MeetingRepository) RemoveAttachments(ctx context.Context, id uuid.UUID, attachmentIDs []uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		for _, aid := range attachmentIDs {
			st.meetingAttachments.unlink(id, aid)
		}
		return nil
	})
}
