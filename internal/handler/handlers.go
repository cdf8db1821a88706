package handler

import (
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
	Email       *EmailPreviewHandler
	Meeting     *MeetingHandler
	Participant *ParticipantHandler
	Attachment  *AttachmentHandler
	Calendar    *CalendarHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
		Email:       NewEmailPreviewHandler(s),
		Meeting:     NewMeetingHandler(s, services.Meetings),
		Participant: NewParticipantHandler(s, services.Participants),
		Attachment:  NewAttachmentHandler(s, services.Attachments),
		Calendar:    NewCalendarHandler(s, services.Calendars),
	}
}
