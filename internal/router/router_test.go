package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/go-calendar/internal/config"
	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/deppfellow/go-calendar/internal/handler"
	"github.com/deppfellow/go-calendar/internal/lib/ics"
	"github.com/deppfellow/go-calendar/internal/logger"
	"github.com/deppfellow/go-calendar/internal/middleware"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
		},
		Database:      config.DatabaseConfig{Driver: config.DriverMemory},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()

	log := zerolog.Nop()
	s := &server.Server{
		Config:        cfg,
		Logger:        &log,
		LoggerService: logger.NewLoggerService(cfg.Observability),
	}

	services, err := service.NewServices(s, repository.NewRepositories(s))
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services), services)
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestParticipantCreateAndGet(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/participants", `{"name":"John Doe","email":"john@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	created := decode[participant.Participant](t, rec)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "John Doe", created.Name)
	assert.Equal(t, "john@example.com", created.Email)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = do(t, e, http.MethodGet, "/participants/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	fetched := decode[participant.Participant](t, rec)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Email, fetched.Email)
}

func TestValidationFailures(t *testing.T) {
	e := newTestRouter(t, testConfig())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"invalid email", http.MethodPost, "/participants", `{"name":"Jane","email":"not-an-email"}`, "email"},
		{"missing name", http.MethodPost, "/participants", `{"email":"jane@example.com"}`, "name"},
		{"invalid url", http.MethodPost, "/attachments", `{"url":"nope"}`, "url"},
		{"missing title", http.MethodPost, "/meetings", `{"location":"Room 1"}`, "title"},
		{"past date", http.MethodPost, "/meetings", `{"title":"Retro","dateTime":"2001-01-01 10:00"}`, "dateTime"},
		{"calendar without meetings", http.MethodPost, "/calendars", `{"title":"Team"}`, "meetingIds"},
		{"malformed path id", http.MethodGet, "/meetings/not-a-uuid", "", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			body := decode[errs.HTTPError](t, rec)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/participants", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFound(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodGet, "/meetings/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Meeting not found", decode[errs.HTTPError](t, rec).Message)

	rec = do(t, e, http.MethodPut, "/calendars/"+uuid.NewString(), `{"title":"x"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Calendar not found", decode[errs.HTTPError](t, rec).Message)

	rec = do(t, e, http.MethodGet, "/nowhere", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}

func TestDeleteUnknownIsNoContent(t *testing.T) {
	e := newTestRouter(t, testConfig())

	for _, path := range []string{"/meetings/", "/participants/", "/attachments/", "/calendars/"} {
		rec := do(t, e, http.MethodDelete, path+uuid.NewString(), "")
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
	}
}

func TestMeetingCalendarLifecycle(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/participants", `{"name":"Ada","email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ada := decode[participant.Participant](t, rec)

	rec = do(t, e, http.MethodPost, "/meetings", `{"title":"Planning","dateTime":"2099-03-01 09:30","location":"Room 4"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	planning := decode[meeting.Meeting](t, rec)
	assert.Empty(t, planning.Participants)

	rec = do(t, e, http.MethodPost, "/meetings/"+planning.ID.String()+"/participants", `["`+ada.ID.String()+`"]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	planning = decode[meeting.Meeting](t, rec)
	require.Len(t, planning.Participants, 1)
	assert.Equal(t, ada.ID, planning.Participants[0].ID)

	rec = do(t, e, http.MethodPatch, "/meetings/"+planning.ID.String(), `{"location":"Room 5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	planning = decode[meeting.Meeting](t, rec)
	assert.Equal(t, "Room 5", planning.Location)
	assert.Equal(t, "Planning", planning.Title)

	rec = do(t, e, http.MethodPost, "/calendars", `{"title":"Team","meetingIds":["`+planning.ID.String()+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	team := decode[calendar.Calendar](t, rec)
	require.Len(t, team.Meetings, 1)

	rec = do(t, e, http.MethodGet, "/calendars/"+team.ID.String()+"/ics", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, ics.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "calendar.ics")
	assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, rec.Body.String(), "mailto:ada@example.com")

	rec = do(t, e, http.MethodDelete, "/calendars/"+team.ID.String()+"/meetings", `{"ids":["`+planning.ID.String()+`"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodDelete, "/meetings/"+planning.ID.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Its only meeting is gone, so the calendar is too.
	rec = do(t, e, http.MethodGet, "/calendars/"+team.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/participants/"+ada.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParticipantDeleteRemovesEmptyMeetings(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/participants", `{"name":"Solo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	solo := decode[participant.Participant](t, rec)

	rec = do(t, e, http.MethodPost, "/meetings", `{"title":"1:1","participantIds":["`+solo.ID.String()+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	oneOnOne := decode[meeting.Meeting](t, rec)

	rec = do(t, e, http.MethodDelete, "/participants/"+solo.ID.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, "/meetings/"+oneOnOne.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReturnsEmptyArray(t *testing.T) {
	e := newTestRouter(t, testConfig())

	for _, path := range []string{"/meetings", "/participants", "/attachments", "/calendars"} {
		rec := do(t, e, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `[]`, rec.Body.String(), path)
	}
}

func TestStatus(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, config.DriverMemory, body["driver"])
}

func TestEmailPreviewOnlyLocal(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), http.MethodGet, "/emails/preview/meeting_invitation", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	cfg := testConfig()
	cfg.Primary.Env = "local"
	e := newTestRouter(t, cfg)

	rec = do(t, e, http.MethodGet, "/emails/preview/meeting_invitation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quarterly planning")

	rec = do(t, e, http.MethodGet, "/emails/preview/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = 1
	e := newTestRouter(t, cfg)

	// Burst is twice the rate.
	for range 2 {
		require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/meetings", "").Code)
	}

	rec := do(t, e, http.MethodGet, "/meetings", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestAuthRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.SecretKey = "sk_test_router"
	e := newTestRouter(t, cfg)

	rec := do(t, e, http.MethodGet, "/meetings", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
