package handler

import (
	"net/http"

	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/deppfellow/go-calendar/internal/lib/email"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/labstack/echo/v4"
)

// EmailPreviewHandler renders email templates with sample data. The router
// only mounts it in the local environment.
type EmailPreviewHandler struct {
	Handler
}

func NewEmailPreviewHandler(s *server.Server) *EmailPreviewHandler {
	return &EmailPreviewHandler{
		Handler: NewHandler(s),
	}
}

func (h *EmailPreviewHandler) PreviewEmail(c echo.Context) error {
	name := email.Template(c.Param("template"))

	data, ok := email.PreviewData[name]
	if !ok {
		return errs.NewNotFoundError("Email template not found", false, nil)
	}

	body, err := email.Render(name, data)
	if err != nil {
		return err
	}

	return c.HTML(http.StatusOK, body)
}
