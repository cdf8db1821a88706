package memory

import (
	"context"

	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/sqlerr"
	"github.com/google/uuid"
)

type CalendarRepository struct {
	store *Store
}

func NewCalendarRepository(store *Store) *CalendarRepository {
	return &CalendarRepository{store: store}
}

func calendarKey(c calendar.Calendar) (int64, uuid.UUID) {
	return c.CreatedAt.UnixNano(), c.ID
}

func (r *CalendarRepository) List(ctx context.Context) ([]calendar.Calendar, error) {
	return run(ctx, r.store, func(st *state) ([]calendar.Calendar, error) {
		out := make([]calendar.Calendar, 0, len(st.calendars))
		for _, c := range st.calendars {
			out = append(out, c)
		}
		sortByCreation(out, calendarKey)
		return out, nil
	})
}

func (r *CalendarRepository) GetByID(ctx context.Context, id uuid.UUID) (*calendar.Calendar, error) {
	return run(ctx, r.store, func(st *state) (*calendar.Calendar, error) {
		c, ok := st.calendars[id]
		if !ok {
			return nil, sqlerr.NotFound("calendars", id)
		}
		return &c, nil
	})
}

func (r *CalendarRepository) Create(ctx context.Context, c *calendar.Calendar) (*calendar.Calendar, error) {
	return run(ctx, r.store, func(st *state) (*calendar.Calendar, error) {
		row := *c
		row.Meetings = nil
		st.calendars[c.ID] = row
		return &row, nil
	})
}

func (r *CalendarRepository) Update(ctx context.Context, c *calendar.Calendar) (*calendar.Calendar, error) {
	return run(ctx, r.store, func(st *state) (*calendar.Calendar, error) {
		current, ok := st.calendars[c.ID]
		if !ok {
			return nil, sqlerr.NotFound("calendars", c.ID)
		}
		row := *c
		row.Meetings = nil
		row.CreatedAt = current.CreatedAt
		st.calendars[c.ID] = row
		return &row, nil
	})
}

func (r *CalendarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		delete(st.calendars, id)
		st.calendarMeetings.dropLeft(id)
		return nil
	})
}

// Lock is a no-op beyond the store lock a transaction already holds.
func (r *CalendarRepository) Lock(ctx context.Context, ids []uuid.UUID) error {
	return write(ctx, r.store, func(*state) error { return nil })
}

func (r *CalendarRepository) MeetingIDs(ctx context.Context, calendarIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	return run(ctx, r.store, func(st *state) (map[uuid.UUID][]uuid.UUID, error) {
		out := make(map[uuid.UUID][]uuid.UUID, len(calendarIDs))
		for _, id := range calendarIDs {
			if _, ok := st.calendars[id]; ok {
				out[id] = st.calendarMeetings.left[id].ids()
			}
		}
		return out, nil
	})
}

func (r *CalendarRepository) AddMeetings(ctx context.Context, id uuid.UUID, meetingIDs []uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		if _, ok := st.calendars[id]; !ok {
			return sqlerr.NotFound("calendars", id)
		}
		for _, mid := range meetingIDs {
			if _, ok := st.meetings[mid]; ok {
				st.calendarMeetings.link(id, mid)
			}
		}
		return nil
	})
}

func (r *CalendarRepository) RemoveMeetings(ctx context.Context, id uuid.UUID, meetingIDs []uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		for _, mid := range meetingIDs {
			st.calendarMeetings.unlink(id, mid)
		}
		return nil
	})
}

func (r *CalendarRepository) DeleteEmpty(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return run(ctx, r.store, func(st *state) ([]uuid.UUID, error) {
		var deleted []uuid.UUID
		for _, id := range ids {
			if _, ok := st.calendars[id]; !ok {
				continue
			}
			if st.calendarMeetings.left[id].len() == 0 {
				delete(st.calendars, id)
				st.calendarMeetings.dropLeft(id)
				deleted = append(deleted, id)
			}
		}
		return deleted, nil
	})
}
