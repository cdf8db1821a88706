package handler

import (
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/service"
	"github.com/labstack/echo/v4"
)

type ParticipantHandler struct {
	Handler
	participants *service.ParticipantService
}

func NewParticipantHandler(s *server.Server, participants *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		Handler:      NewHandler(s),
		participants: participants,
	}
}

func (h *ParticipantHandler) ListParticipants(c echo.Context, _ *participant.ListParticipantsPayload) ([]participant.Participant, error) {
	return h.participants.List(c.Request().Context())
}

func (h *ParticipantHandler) GetParticipantByID(c echo.Context, payload *participant.GetParticipantByIDPayload) (*participant.Participant, error) {
	return h.participants.GetByID(c.Request().Context(), payload.ParsedID())
}

func (h *ParticipantHandler) CreateParticipant(c echo.Context, payload *participant.CreateParticipantPayload) (*participant.Participant, error) {
	return h.participants.Create(c.Request().Context(), payload)
}

func (h *ParticipantHandler) UpdateParticipant(c echo.Context, payload *participant.UpdateParticipantPayload) (*participant.Participant, error) {
	return h.participants.Update(c.Request().Context(), payload)
}

// DeleteParticipant also deletes the meetings left without participants.
func (h *ParticipantHandler) DeleteParticipant(c echo.Context, payload *participant.DeleteParticipantPayload) error {
	return h.participants.Delete(c.Request().Context(), payload.ParsedID())
}
