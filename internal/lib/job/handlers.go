package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/go-calendar/internal/lib/email"
	"github.com/hibiken/asynq"
)

// InvitationMailer sends meeting invitations. *email.Client implements it.
type InvitationMailer interface {
	SendMeetingInvitation(inv email.Invitation) error
}

func (j *JobService) handleMeetingInvitationTask(ctx context.Context, t *asynq.Task) error {
	var p MeetingInvitationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal meeting invitation payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskMeetingInvitation).
		Str("meeting_id", p.MeetingID).
		Str("to", p.To).
		Logger()

	log.Info().Msg("processing meeting invitation task")

	err := j.mailer.SendMeetingInvitation(email.Invitation{
		To:              p.To,
		ParticipantName: p.ParticipantName,
		MeetingTitle:    p.MeetingTitle,
		MeetingDateTime: p.MeetingDateTime,
		MeetingLocation: p.MeetingLocation,
		MeetingDetails:  p.MeetingDetails,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to send meeting invitation")
		return err
	}

	log.Info().Msg("sent meeting invitation")
	return nil
}
