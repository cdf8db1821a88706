// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// payloads from the handlers, enforces the association and cascade rules,
// and groups repository calls into transactions.
package service

import (
	"context"
	"time"

	"github.com/deppfellow/go-calendar/internal/lib/job"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Inviter queues invitation emails. *job.JobService implements it.
type Inviter interface {
	EnqueueMeetingInvitation(ctx context.Context, p job.MeetingInvitationPayload) error
}

type clock func() time.Time

// invite queues one invitation per newly linked participant that has an
// email. Failures are logged and never fail the request.
func invite(ctx context.Context, inviter Inviter, m *meeting.Meeting, added []uuid.UUID) {
	if inviter == nil || len(added) == 0 {
		return
	}

	logger := zerolog.Ctx(ctx)

	isNew := make(map[uuid.UUID]struct{}, len(added))
	for _, id := range added {
		isNew[id] = struct{}{}
	}

	for _, p := range m.Participants {
		if _, ok := isNew[p.ID]; !ok || p.Email == "" {
			continue
		}

		if err := inviter.EnqueueMeetingInvitation(ctx, invitationPayload(m, p)); err != nil {
			logger.Error().
				Err(err).
				Str("meeting_id", m.ID.String()).
				Str("participant_id", p.ID.String()).
				Msg("failed to enqueue meeting invitation")
		}
	}
}

func invitationPayload(m *meeting.Meeting, p participant.Participant) job.MeetingInvitationPayload {
	payload := job.MeetingInvitationPayload{
		MeetingID:       m.ID.String(),
		ParticipantID:   p.ID.String(),
		To:              p.Email,
		ParticipantName: p.Name,
		MeetingTitle:    m.Title,
		MeetingLocation: m.Location,
		MeetingDetails:  m.Details,
	}
	if m.DateTime != nil {
		payload.MeetingDateTime = m.DateTime.String()
	}
	return payload
}
