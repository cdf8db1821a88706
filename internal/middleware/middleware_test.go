package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/go-calendar/internal/config"
	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"missing", "", false},
		{"reused", "abc-123", true},
		{"too long", strings.Repeat("a", MaxRequestIDLength+1), false},
		{"control characters", "abc\r\nX-Injected: 1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()

			require.NoError(t, handler(e.NewContext(req, rec)))

			got := rec.Header().Get(RequestIDHeader)
			assert.Equal(t, got, rec.Body.String())
			if tt.reuse {
				assert.Equal(t, tt.incoming, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func newTestGlobal() *GlobalMiddlewares {
	log := zerolog.Nop()
	return NewGlobalMiddlewares(&server.Server{
		Config: &config.Config{Observability: config.DefaultObservabilityConfig()},
		Logger: &log,
	})
}

func TestGlobalErrorHandler(t *testing.T) {
	global := newTestGlobal()
	e := echo.New()

	tests := []struct {
		name    string
		method  string
		err     error
		status  int
		message string
	}{
		{"http error", http.MethodGet, errs.NewBadRequestError("Invalid input", true, nil, nil, nil), http.StatusBadRequest, "Invalid input"},
		{"unknown route", http.MethodGet, echo.ErrNotFound, http.StatusNotFound, "Route not found"},
		{"wrong method", http.MethodPost, echo.ErrMethodNotAllowed, http.StatusNotFound, "Route not found"},
		{"missing row", http.MethodGet, sqlerr.NotFound("participants", uuid.New()), http.StatusNotFound, "Participant not found"},
		{"unexpected", http.MethodGet, errors.New("boom"), http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestGlobalErrorHandlerHead(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	newTestGlobal().GlobalErrorHandler(errs.NewNotFoundError("Meeting not found", true, nil), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetLoggerFallsBackToNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
	assert.Empty(t, GetUserID(c))
}
