package service

import (
	"context"
	"errors"

	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/deppfellow/go-calendar/internal/lib/ics"
	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	codeCalendarMeetingsRequired = "CALENDAR_MEETINGS_REQUIRED"
	codeCalendarNothingScheduled = "CALENDAR_NOTHING_SCHEDULED"
)

func errCalendarNeedsMeeting(message string) error {
	code := codeCalendarMeetingsRequired
	return errs.NewBadRequestError(message, true, &code, []errs.FieldError{
		{Field: "meetingIds", Error: "must keep at least one existing meeting"},
	}, nil)
}

type CalendarService struct {
	repos *repository.Repositories
	now   clock
}

func NewCalendarService(repos *repository.Repositories, now clock) *CalendarService {
	return &CalendarService{repos: repos, now: now}
}

// withMeetings loads the meetings of every calendar in cals.
func (s *CalendarService) withMeetings(ctx context.Context, cals []calendar.Calendar) error {
	if len(cals) == 0 {
		return nil
	}

	calendarIDs := make([]uuid.UUID, 0, len(cals))
	for _, c := range cals {
		calendarIDs = append(calendarIDs, c.ID)
	}

	membership, err := s.repos.Calendars.MeetingIDs(ctx, calendarIDs)
	if err != nil {
		return err
	}

	var meetingIDs []uuid.UUID
	for _, ids := range membership {
		meetingIDs = append(meetingIDs, ids...)
	}

	meetings, err := s.repos.Meetings.GetByIDs(ctx, model.UniqueIDs(meetingIDs))
	if err != nil {
		return err
	}

	// Meetings keep the creation order GetByIDs returned them in.
	for i := range cals {
		members := make(map[uuid.UUID]struct{}, len(membership[cals[i].ID]))
		for _, id := range membership[cals[i].ID] {
			members[id] = struct{}{}
		}

		cals[i].Meetings = make([]meeting.Meeting, 0, len(members))
		for _, m := range meetings {
			if _, ok := members[m.ID]; ok {
				cals[i].Meetings = append(cals[i].Meetings, m)
			}
		}
		cals[i].EnsureRelations()
	}

	return nil
}

func (s *CalendarService) load(ctx context.Context, id uuid.UUID) (*calendar.Calendar, error) {
	c, err := s.repos.Calendars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cals := []calendar.Calendar{*c}
	if err := s.withMeetings(ctx, cals); err != nil {
		return nil, err
	}
	return &cals[0], nil
}

func (s *CalendarService) List(ctx context.Context) ([]calendar.Calendar, error) {
	cals, err := s.repos.Calendars.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.withMeetings(ctx, cals); err != nil {
		return nil, err
	}
	return cals, nil
}

func (s *CalendarService) GetByID(ctx context.Context, id uuid.UUID) (*calendar.Calendar, error) {
	return s.load(ctx, id)
}

// Create stores the calendar with the existing meetings among the payload
// ids. At least one of them must exist.
func (s *CalendarService) Create(ctx context.Context, payload *calendar.CreateCalendarPayload) (*calendar.Calendar, error) {
	c := &calendar.Calendar{
		Base:    model.NewBase(s.now()),
		Title:   payload.Title,
		Details: payload.Details,
	}

	var created *calendar.Calendar

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repos.Meetings.ExistingIDs(ctx, payload.MeetingIDs)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return errCalendarNeedsMeeting("A calendar needs at least one existing meeting")
		}

		if _, err := s.repos.Calendars.Create(ctx, c); err != nil {
			return err
		}
		if err := s.repos.Calendars.AddMeetings(ctx, c.ID, existing); err != nil {
			return err
		}

		created, err = s.load(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("calendar_id", created.ID.String()).
		Int("meetings", len(created.Meetings)).
		Msg("calendar created")

	return created, nil
}

func (s *CalendarService) Update(ctx context.Context, payload *calendar.UpdateCalendarPayload) (*calendar.Calendar, error) {
	var updated *calendar.Calendar

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repos.Calendars.GetByID(ctx, payload.CalendarID())
		if err != nil {
			return err
		}

		payload.Apply(current)
		current.UpdatedAt = s.now().UTC()

		if _, err := s.repos.Calendars.Update(ctx, current); err != nil {
			return err
		}

		updated, err = s.load(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the calendar only; its meetings stay.
func (s *CalendarService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Calendars.Delete(ctx, id)
}

func (s *CalendarService) AddMeetings(ctx context.Context, payload *calendar.MeetingsPayload) (*calendar.Calendar, error) {
	return s.mutate(ctx, payload.ParentID(), func(ctx context.Context, c *calendar.Calendar) error {
		return s.repos.Calendars.AddMeetings(ctx, c.ID, payload.IDs)
	})
}

// RemoveMeetings rejects a removal that would leave the calendar empty.
func (s *CalendarService) RemoveMeetings(ctx context.Context, payload *calendar.MeetingsPayload) (*calendar.Calendar, error) {
	return s.mutate(ctx, payload.ParentID(), func(ctx context.Context, c *calendar.Calendar) error {
		removed := make(map[uuid.UUID]struct{}, len(payload.IDs))
		for _, id := range payload.IDs {
			removed[id] = struct{}{}
		}

		remaining := 0
		for _, id := range c.MeetingIDs() {
			if _, ok := removed[id]; !ok {
				remaining++
			}
		}
		if remaining == 0 {
			return errCalendarNeedsMeeting("A calendar must keep at least one meeting")
		}

		return s.repos.Calendars.RemoveMeetings(ctx, c.ID, payload.IDs)
	})
}

func (s *CalendarService) mutate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, c *calendar.Calendar) error) (*calendar.Calendar, error) {
	var updated *calendar.Calendar

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Calendars.Lock(ctx, []uuid.UUID{id}); err != nil {
			return err
		}

		current, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, current); err != nil {
			return err
		}

		current.UpdatedAt = s.now().UTC()
		if _, err := s.repos.Calendars.Update(ctx, current); err != nil {
			return err
		}

		updated, err = s.load(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Export renders the calendar as an iCalendar document.
func (s *CalendarService) Export(ctx context.Context, id uuid.UUID) ([]byte, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := ics.Encode(c, s.now())
	if errors.Is(err, ics.ErrNothingScheduled) {
		code := codeCalendarNothingScheduled
		return nil, errs.NewBadRequestError("Calendar has no scheduled meetings to export", true, &code, nil, nil)
	}
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("calendar_id", c.ID.String()).
		Int("bytes", len(data)).
		Msg("calendar exported")

	return data, nil
}
