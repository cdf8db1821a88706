package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskMeetingInvitation = "meeting:invitation"
)

// MeetingInvitationPayload is stored in Redis with the task.
type MeetingInvitationPayload struct {
	MeetingID       string `json:"meeting_id"`
	ParticipantID   string `json:"participant_id"`
	To              string `json:"to"`
	ParticipantName string `json:"participant_name"`
	MeetingTitle    string `json:"meeting_title"`
	MeetingDateTime string `json:"meeting_date_time,omitempty"`
	MeetingLocation string `json:"meeting_location,omitempty"`
	MeetingDetails  string `json:"meeting_details,omitempty"`
}

// NewMeetingInvitationTask builds the task for one invitation email.
func NewMeetingInvitationTask(p MeetingInvitationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskMeetingInvitation, payload, invitationOptions(p)...), nil
}

// invitationOptions keys the task by meeting and participant, so re-adding
// the same participant while the first task is pending or retrying does not
// send twice. No retention is set: once the task completes its id is freed
// and a later remove-then-add invites again.
func invitationOptions(p MeetingInvitationPayload) []asynq.Option {
	return []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30 * time.Second),
		asynq.TaskID(TaskMeetingInvitation + ":" + p.MeetingID + ":" + p.ParticipantID),
	}
}
