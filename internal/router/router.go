// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/go-calendar/internal/handler"
	"github.com/deppfellow/go-calendar/internal/lib/ics"
	"github.com/deppfellow/go-calendar/internal/middleware"
	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/service"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the global middleware chain, the
// system routes and one group per resource.
func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id and the request-scoped logger must exist
	// before anything logs.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h, s.Config.Primary.Env)

	var protected []echo.MiddlewareFunc
	if services.Auth.Enabled() {
		protected = append(protected, middlewares.Auth.RequireAuth)
	}

	registerMeetingRoutes(router.Group("/meetings", protected...), h.Meeting)
	registerParticipantRoutes(router.Group("/participants", protected...), h.Participant)
	registerAttachmentRoutes(router.Group("/attachments", protected...), h.Attachment)
	registerCalendarRoutes(router.Group("/calendars", protected...), h.Calendar)

	return router
}

func registerMeetingRoutes(g *echo.Group, h *handler.MeetingHandler) {
	update := handler.Handle(h.Handler, h.UpdateMeeting, http.StatusOK, &meeting.UpdateMeetingPayload{})

	g.GET("", handler.Handle(h.Handler, h.ListMeetings, http.StatusOK, &meeting.ListMeetingsPayload{}))
	g.POST("", handler.Handle(h.Handler, h.CreateMeeting, http.StatusOK, &meeting.CreateMeetingPayload{}))
	g.GET("/:id", handler.Handle(h.Handler, h.GetMeetingByID, http.StatusOK, &meeting.GetMeetingByIDPayload{}))
	g.PUT("/:id", update)
	g.PATCH("/:id", update)
	g.DELETE("/:id", handler.HandleNoContent(h.Handler, h.DeleteMeeting, http.StatusNoContent, &meeting.DeleteMeetingPayload{}))

	g.POST("/:id/participants", handler.Handle(h.Handler, h.AddParticipants, http.StatusOK, &meeting.ParticipantsPayload{}))
	g.DELETE("/:id/participants", handler.Handle(h.Handler, h.RemoveParticipants, http.StatusOK, &meeting.ParticipantsPayload{}))
	g.POST("/:id/attachments", handler.Handle(h.Handler, h.AddAttachments, http.StatusOK, &meeting.AttachmentsPayload{}))
	g.DELETE("/:id/attachments", handler.Handle(h.Handler, h.RemoveAttachments, http.StatusOK, &meeting.AttachmentsPayload{}))
}

func registerParticipantRoutes(g *echo.Group, h *handler.ParticipantHandler) {
	update := handler.Handle(h.Handler, h.UpdateParticipant, http.StatusOK, &participant.UpdateParticipantPayload{})

	g.GET("", handler.Handle(h.Handler, h.ListParticipants, http.StatusOK, &participant.ListParticipantsPayload{}))
	g.POST("", handler.Handle(h.Handler, h.CreateParticipant, http.StatusOK, &participant.CreateParticipantPayload{}))
	g.GET("/:id", handler.Handle(h.Handler, h.GetParticipantByID, http.StatusOK, &participant.GetParticipantByIDPayload{}))
	g.PUT("/:id", update)
	g.PATCH("/:id", update)
	g.DELETE("/:id", handler.HandleNoContent(h.Handler, h.DeleteParticipant, http.StatusNoContent, &participant.DeleteParticipantPayload{}))
}

func registerAttachmentRoutes(g *echo.Group, h *handler.AttachmentHandler) {
	update := handler.Handle(h.Handler, h.UpdateAttachment, http.StatusOK, &attachment.UpdateAttachmentPayload{})

	g.GET("", handler.Handle(h.Handler, h.ListAttachments, http.StatusOK, &attachment.ListAttachmentsPayload{}))
	g.POST("", handler.Handle(h.Handler, h.CreateAttachment, http.StatusOK, &attachment.CreateAttachmentPayload{}))
	g.GET("/:id", handler.Handle(h.Handler, h.GetAttachmentByID, http.StatusOK, &attachment.GetAttachmentByIDPayload{}))
	g.PUT("/:id", update)
	g.PATCH("/:id", update)
	g.DELETE("/:id", handler.HandleNoContent(h.Handler, h.DeleteAttachment, http.StatusNoContent, &attachment.DeleteAttachmentPayload{}))
}

func registerCalendarRoutes(g *echo.Group, h *handler.CalendarHandler) {
	update := handler.Handle(h.Handler, h.UpdateCalendar, http.StatusOK, &calendar.UpdateCalendarPayload{})

	g.GET("", handler.Handle(h.Handler, h.ListCalendars, http.StatusOK, &calendar.ListCalendarsPayload{}))
	g.POST("", handler.Handle(h.Handler, h.CreateCalendar, http.StatusOK, &calendar.CreateCalendarPayload{}))
	g.GET("/:id", handler.Handle(h.Handler, h.GetCalendarByID, http.StatusOK, &calendar.GetCalendarByIDPayload{}))
	g.PUT("/:id", update)
	g.PATCH("/:id", update)
	g.DELETE("/:id", handler.HandleNoContent(h.Handler, h.DeleteCalendar, http.StatusNoContent, &calendar.DeleteCalendarPayload{}))

	g.POST("/:id/meetings", handler.Handle(h.Handler, h.AddMeetings, http.StatusOK, &calendar.MeetingsPayload{}))
	g.DELETE("/:id/meetings", handler.Handle(h.Handler, h.RemoveMeetings, http.StatusOK, &calendar.MeetingsPayload{}))
	g.GET("/:id/ics", handler.HandleFile(h.Handler, h.ExportCalendar, http.StatusOK, &calendar.ExportCalendarPayload{}, "calendar.ics", ics.ContentType))
}
