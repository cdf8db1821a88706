package service

import (
	"context"

	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type MeetingService struct {
	repos   *repository.Repositories
	inviter Inviter
	now     clock
}

func NewMeetingService(repos *repository.Repositories, inviter Inviter, now clock) *MeetingService {
	return &MeetingService{repos: repos, inviter: inviter, now: now}
}

func (s *MeetingService) List(ctx context.Context) ([]meeting.Meeting, error) {
	return s.repos.Meetings.List(ctx)
}

func (s *MeetingService) GetByID(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error) {
	return s.repos.Meetings.GetByID(ctx, id)
}

// Create stores the meeting and links the existing participants and
// attachments among the payload ids.
func (s *MeetingService) Create(ctx context.Context, payload *meeting.CreateMeetingPayload) (*meeting.Meeting, error) {
	m := &meeting.Meeting{
		Base:     model.NewBase(s.now()),
		Title:    payload.Title,
		DateTime: payload.DateTime,
		Location: payload.Location,
		Details:  payload.Details,
	}

	var (
		created *meeting.Meeting
		added   []uuid.UUID
	)

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Meetings.Create(ctx, m); err != nil {
			return err
		}

		var err error
		if added, err = s.repos.Meetings.AddParticipants(ctx, m.ID, payload.ParticipantIDs); err != nil {
			return err
		}
		if err = s.repos.Meetings.AddAttachments(ctx, m.ID, payload.AttachmentIDs); err != nil {
			return err
		}

		created, err = s.repos.Meetings.GetByID(ctx, m.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("meeting_id", created.ID.String()).
		Int("participants", len(created.Participants)).
		Int("attachments", len(created.Attachments)).
		Msg("meeting created")

	invite(ctx, s.inviter, created, added)

	return created, nil
}

func (s *MeetingService) Update(ctx context.Context, payload *meeting.UpdateMeetingPayload) (*meeting.Meeting, error) {
	var updated *meeting.Meeting

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repos.Meetings.GetByID(ctx, payload.MeetingID())
		if err != nil {
			return err
		}

		payload.Apply(current)
		current.UpdatedAt = s.now().UTC()

		updated, err = s.repos.Meetings.Update(ctx, current)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the meeting, detaches it from its calendars and deletes the
// calendars it leaves empty. Unknown ids are not an error.
func (s *MeetingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.deleteMeetings(ctx, []uuid.UUID{id})
	})
}

// deleteMeetings must run inside a transaction.
func (s *MeetingService) deleteMeetings(ctx context.Context, ids []uuid.UUID) error {
	var calendarIDs []uuid.UUID

	for _, id := range ids {
		ownerIDs, err := s.repos.Meetings.CalendarIDs(ctx, id)
		if err != nil {
			return err
		}
		calendarIDs = append(calendarIDs, ownerIDs...)
	}
	calendarIDs = model.UniqueIDs(calendarIDs)

	// Calendar membership changes lock the calendar first, so the empty
	// check below sees every committed removal.
	if err := s.repos.Calendars.Lock(ctx, calendarIDs); err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.repos.Meetings.Delete(ctx, id); err != nil {
			return err
		}
	}

	deleted, err := s.repos.Calendars.DeleteEmpty(ctx, calendarIDs)
	if err != nil {
		return err
	}

	if len(deleted) > 0 {
		zerolog.Ctx(ctx).Info().
			Int("meetings", len(ids)).
			Int("calendars", len(deleted)).
			Msg("deleted calendars left without meetings")
	}

	return nil
}

func (s *MeetingService) AddParticipants(ctx context.Context, payload *meeting.ParticipantsPayload) (*meeting.Meeting, error) {
	var (
		updated *meeting.Meeting
		added   []uuid.UUID
	)

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if added, err = s.repos.Meetings.AddParticipants(ctx, payload.ParentID(), payload.IDs); err != nil {
			return err
		}
		updated, err = s.touch(ctx, payload.ParentID())
		return err
	})
	if err != nil {
		return nil, err
	}

	invite(ctx, s.inviter, updated, added)

	return updated, nil
}

func (s *MeetingService) RemoveParticipants(ctx context.Context, payload *meeting.ParticipantsPayload) (*meeting.Meeting, error) {
	return s.mutate(ctx, payload.ParentID(), func(ctx context.Context, id uuid.UUID) error {
		return s.repos.Meetings.RemoveParticipants(ctx, id, payload.IDs)
	})
}

func (s *MeetingService) AddAttachments(ctx context.Context, payload *meeting.AttachmentsPayload) (*meeting.Meeting, error) {
	return s.mutate(ctx, payload.ParentID(), func(ctx context.Context, id uuid.UUID) error {
		return s.repos.Meetings.AddAttachments(ctx, id, payload.IDs)
	})
}

func (s *MeetingService) RemoveAttachments(ctx context.Context, payload *meeting.AttachmentsPayload) (*meeting.Meeting, error) {
	return s.mutate(ctx, payload.ParentID(), func(ctx context.Context, id uuid.UUID) error {
		return s.repos.Meetings.RemoveAttachments(ctx, id, payload.IDs)
	})
}

// mutate checks the meeting exists, applies fn and returns the refreshed
// meeting, all in one transaction.
func (s *MeetingService) mutate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, id uuid.UUID) error) (*meeting.Meeting, error) {
	var updated *meeting.Meeting

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Meetings.GetByID(ctx, id); err != nil {
			return err
		}
		if err := fn(ctx, id); err != nil {
			return err
		}

		var err error
		updated, err = s.touch(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// touch bumps updatedAt after an association change.
func (s *MeetingService) touch(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error) {
	current, err := s.repos.Meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.UpdatedAt = s.now().UTC()
	return s.repos.Meetings.Update(ctx, current)
}
