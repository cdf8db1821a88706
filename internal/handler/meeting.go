package handler

import (
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/service"
	"github.com/labstack/echo/v4"
)

type MeetingHandler struct {
	Handler
	meetings *service.MeetingService
}

func NewMeetingHandler(s *server.Server, meetings *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		Handler:  NewHandler(s),
		meetings: meetings,
	}
}

func (h *MeetingHandler) ListMeetings(c echo.Context, _ *meeting.ListMeetingsPayload) ([]meeting.Meeting, error) {
	return h.meetings.List(c.Request().Context())
}

func (h *MeetingHandler) GetMeetingByID(c echo.Context, payload *meeting.GetMeetingByIDPayload) (*meeting.Meeting, error) {
	return h.meetings.GetByID(c.Request().Context(), payload.ParsedID())
}

func (h *MeetingHandler) CreateMeeting(c echo.Context, payload *meeting.CreateMeetingPayload) (*meeting.Meeting, error) {
	return h.meetings.Create(c.Request().Context(), payload)
}

func (h *MeetingHandler) UpdateMeeting(c echo.Context, payload *meeting.UpdateMeetingPayload) (*meeting.Meeting, error) {
	return h.meetings.Update(c.Request().Context(), payload)
}

func (h *MeetingHandler) DeleteMeeting(c echo.Context, payload *meeting.DeleteMeetingPayload) error {
	return h.meetings.Delete(c.Request().Context(), payload.ParsedID())
}

func (h *MeetingHandler) AddParticipants(c echo.Context, payload *meeting.ParticipantsPayload) (*meeting.Meeting, error) {
	return h.meetings.AddParticipants(c.Request().Context(), payload)
}

func (h *MeetingHandler) RemoveParticipants(c echo.Context, payload *meeting.ParticipantsPayload) (*meeting.Meeting, error) {
	return h.meetings.RemoveParticipants(c.Request().Context(), payload)
}

func (h *MeetingHandler) AddAttachments(c echo.Context, payload *meeting.AttachmentsPayload) (*meeting.Meeting, error) {
	return h.meetings.AddAttachments(c.Request().Context(), payload)
}

func (h *MeetingHandler) RemoveAttachments(c echo.Context, payload *meeting.AttachmentsPayload) (*meeting.Meeting, error) {
	return h.meetings.RemoveAttachments(c.Request().Context(), payload)
}
