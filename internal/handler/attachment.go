package handler

import (
	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/service"
	"github.com/labstack/echo/v4"
)

type AttachmentHandler struct {
	Handler
	attachments *service.AttachmentService
}

func NewAttachmentHandler(s *server.Server, attachments *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		Handler:     NewHandler(s),
		attachments: attachments,
	}
}

func (h *AttachmentHandler) ListAttachments(c echo.Context, _ *attachment.ListAttachmentsPayload) ([]attachment.Attachment, error) {
	return h.attachments.List(c.Request().Context())
}

func (h *AttachmentHandler) GetAttachmentByID(c echo.Context, payload *attachment.GetAttachmentByIDPayload) (*attachment.Attachment, error) {
	return h.attachments.GetByID(c.Request().Context(), payload.ParsedID())
}

func (h *AttachmentHandler) CreateAttachment(c echo.Context, payload *attachment.CreateAttachmentPayload) (*attachment.Attachment, error) {
	return h.attachments.Create(c.Request().Context(), payload)
}

func (h *AttachmentHandler) UpdateAttachment(c echo.Context, payload *attachment.UpdateAttachmentPayload) (*attachment.Attachment, error) {
	return h.attachments.Update(c.Request().Context(), payload)
}

func (h *AttachmentHandler) DeleteAttachment(c echo.Context, payload *attachment.DeleteAttachmentPayload) error {
	return h.attachments.Delete(c.Request().Context(), payload.ParsedID())
}
