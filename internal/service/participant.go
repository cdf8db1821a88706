package service

import (
	"context"

	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ParticipantService struct {
	repos    *repository.Repositories
	meetings *MeetingService
	now      clock
}

func NewParticipantService(repos *repository.Repositories, meetings *MeetingService, now clock) *ParticipantService {
	return &ParticipantService{repos: repos, meetings: meetings, now: now}
}

func (s *ParticipantService) List(ctx context.Context) ([]participant.Participant, error) {
	return s.repos.Participants.List(ctx)
}

func (s *ParticipantService) GetByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	return s.repos.Participants.GetByID(ctx, id)
}

func (s *ParticipantService) Create(ctx context.Context, payload *participant.CreateParticipantPayload) (*participant.Participant, error) {
	p := &participant.Participant{
		Base:  model.NewBase(s.now()),
		Name:  payload.Name,
		Email: payload.Email,
	}
	return s.repos.Participants.Create(ctx, p)
}

func (s *ParticipantService) Update(ctx context.Context, payload *participant.UpdateParticipantPayload) (*participant.Participant, error) {
	var updated *participant.Participant

	err := s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repos.Participants.GetByID(ctx, payload.ParticipantID())
		if err != nil {
			return err
		}

		payload.Apply(current)
		current.UpdatedAt = s.now().UTC()

		updated, err = s.repos.Participants.Update(ctx, current)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the participant and every meeting it leaves without
// participants. Those meetings cascade to their calendars like a direct
// meeting delete.
func (s *ParticipantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		meetingIDs, err := s.repos.Participants.MeetingIDs(ctx, id)
		if err != nil {
			return err
		}

		if err := s.repos.Participants.Delete(ctx, id); err != nil {
			return err
		}

		orphaned, err := s.repos.Meetings.WithoutParticipants(ctx, meetingIDs)
		if err != nil {
			return err
		}
		if len(orphaned) == 0 {
			return nil
		}

		zerolog.Ctx(ctx).Info().
			Str("participant_id", id.String()).
			Int("meetings", len(orphaned)).
			Msg("deleting meetings left without participants")

		return s.meetings.deleteMeetings(ctx, orphaned)
	})
}
