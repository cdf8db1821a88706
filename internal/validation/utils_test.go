package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ID    string `param:"id" validate:"required,uuid"`
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (p *samplePayload) Normalize() {
	p.Name = LimitString(p.Name, 5)
}

func (p *samplePayload) Validate() error {
	return Validator().Struct(p)
}

type customPayload struct{}

func (p *customPayload) Validate() error {
	return CustomValidationErrors{{Field: "dateTime", Message: "must be in the present or future"}}
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("6f1c2a9e-8d3b-4c1a-9f2e-3b4a5c6d7e8f")
	return c
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	return httpErr
}

func TestBindAndValidateNormalizes(t *testing.T) {
	payload := &samplePayload{}
	err := BindAndValidate(newContext(`{"name":"   Johnathan  "}`), payload)
	require.NoError(t, err)

	assert.Equal(t, "Johna", payload.Name)
	assert.Equal(t, "6f1c2a9e-8d3b-4c1a-9f2e-3b4a5c6d7e8f", payload.ID)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":"   ","email":"not-an-email"}`), &samplePayload{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "name", Error: "is required"},
		{Field: "email", Error: "must be a valid email address"},
	}, httpErr.Errors)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":`), &samplePayload{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{}`), &customPayload{})

	httpErr := requireHTTPError(t, err)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "dateTime", httpErr.Errors[0].Field)
}

func TestLimitString(t *testing.T) {
	assert.Equal(t, "abc", LimitString("  abc  ", 10))
	assert.Equal(t, "héll", LimitString("héllo wörld", 4))
	assert.Equal(t, "", LimitString("   ", 3))

	s := "  trimmed "
	LimitStringPtr(&s, 4)
	assert.Equal(t, "trim", s)
	LimitStringPtr(nil, 4)
}
