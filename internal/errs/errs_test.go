package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", NewNotFoundError("Meeting not found", true, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, NewTooManyRequestsError("slow down").Status)
	assert.Equal(t, "TOO_MANY_REQUESTS", NewTooManyRequestsError("slow down").Code)

	code := "MEETING_INVALID"
	err := NewBadRequestError("bad", true, &code, []FieldError{{Field: "title", Error: "is required"}}, nil)
	assert.Equal(t, code, err.Code)
	assert.Len(t, err.Errors, 1)

	internal := NewInternalServerError()
	assert.Equal(t, "Internal Server Error", internal.Message)
	assert.False(t, internal.Override)
}

func TestHTTPErrorIsAndWithMessage(t *testing.T) {
	base := NewNotFoundError("Resource not found", false, nil)
	wrapped := fmt.Errorf("loading: %w", base)

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	clone := base.WithMessage("Calendar not found")
	assert.Equal(t, "Calendar not found", clone.Message)
	assert.Equal(t, "Resource not found", base.Message)
	assert.Equal(t, base.Status, clone.Status)
}
