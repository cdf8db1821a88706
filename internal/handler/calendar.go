package handler

import (
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/service"
	"github.com/labstack/echo/v4"
)

type CalendarHandler struct {
	Handler
	calendars *service.CalendarService
}

func NewCalendarHandler(s *server.Server, calendars *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		Handler:   NewHandler(s),
		calendars: calendars,
	}
}

func (h *CalendarHandler) ListCalendars(c echo.Context, _ *calendar.ListCalendarsPayload) ([]calendar.Calendar, error) {
	return h.calendars.List(c.Request().Context())
}

func (h *CalendarHandler) GetCalendarByID(c echo.Context, payload *calendar.GetCalendarByIDPayload) (*calendar.Calendar, error) {
	return h.calendars.GetByID(c.Request().Context(), payload.ParsedID())
}

func (h *CalendarHandler) CreateCalendar(c echo.Context, payload *calendar.CreateCalendarPayload) (*calendar.Calendar, error) {
	return h.calendars.Create(c.Request().Context(), payload)
}

func (h *CalendarHandler) UpdateCalendar(c echo.Context, payload *calendar.UpdateCalendarPayload) (*calendar.Calendar, error) {
	return h.calendars.Update(c.Request().Context(), payload)
}

func (h *CalendarHandler) DeleteCalendar(c echo.Context, payload *calendar.DeleteCalendarPayload) error {
	return h.calendars.Delete(c.Request().Context(), payload.ParsedID())
}

func (h *CalendarHandler) AddMeetings(c echo.Context, payload *calendar.MeetingsPayload) (*calendar.Calendar, error) {
	return h.calendars.AddMeetings(c.Request().Context(), payload)
}

func (h *CalendarHandler) RemoveMeetings(c echo.Context, payload *calendar.MeetingsPayload) (*calendar.Calendar, error) {
	return h.calendars.RemoveMeetings(c.Request().Context(), payload)
}

// ExportCalendar renders the calendar's scheduled meetings as iCalendar.
func (h *CalendarHandler) ExportCalendar(c echo.Context, payload *calendar.ExportCalendarPayload) ([]byte, error) {
	return h.calendars.Export(c.Request().Context(), payload.ParsedID())
}
