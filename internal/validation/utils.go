// Package validation binds request data into payload structs and validates it.
//
// Payloads declare rules with `validate` struct tags and run them through the
// shared validator. Payloads that also implement Normalizer get their text
// trimmed and truncated before validation runs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// Normalizer is implemented by payloads that clean their own input before
// validation, e.g. trimming whitespace and truncating long text.
type Normalizer interface {
	Normalize()
}

// CustomValidationError is a rule that struct tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors satisfies error so Validate can return it directly.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

// Validator returns the shared validator. Field names in its errors are the
// JSON names of the payload fields.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "param"} {
				name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})
	})
	return validate
}

// BindAndValidate binds the request into payload, normalizes it when
// possible and validates it. Any failure is returned as a 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if n, ok := payload.(Normalizer); ok {
		n.Normalize()
	}

	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bindErrorMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok && msg != "" {
			return msg
		}
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	for _, fe := range validationErrors {
		field := fe.Field()
		var msg string

		switch fe.Tag() {
		case "required", "required_without":
			msg = "is required"

		case "min":
			switch fe.Kind() {
			case reflect.String:
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			case reflect.Slice:
				msg = fmt.Sprintf("must contain at least %s items", fe.Param())
			default:
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}

		case "max":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())

		case "email":
			msg = "must be a valid email address"

		case "url", "http_url":
			msg = "must be a valid URL"

		case "uuid", "uuid4":
			msg = "must be a valid UUID"

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// LimitString trims surrounding whitespace and cuts s to at most limit
// characters.
func LimitString(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:limit]))
}

// LimitStringPtr applies LimitString to a non-nil pointer in place.
func LimitStringPtr(s *string, limit int) {
	if s != nil {
		*s = LimitString(*s, limit)
	}
}
