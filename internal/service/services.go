package service

import (
	"time"

	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/deppfellow/go-calendar/internal/server"
)

type Services struct {
	Auth         *AuthService
	Meetings     *MeetingService
	Participants *ParticipantService
	Attachments  *AttachmentService
	Calendars    *CalendarService
}

// NewServices wires every service to repos. Invitations are queued only
// when the server runs a job service.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var inviter Inviter
	if s.Job != nil {
		inviter = s.Job
	}

	return newServices(NewAuthService(s), repos, inviter, time.Now), nil
}

func newServices(auth *AuthService, repos *repository.Repositories, inviter Inviter, now clock) *Services {
	meetings := NewMeetingService(repos, inviter, now)

	return &Services{
		Auth:         auth,
		Meetings:     meetings,
		Participants: NewParticipantService(repos, meetings, now),
		Attachments:  NewAttachmentService(repos, now),
		Calendars:    NewCalendarService(repos, now),
	}
}
