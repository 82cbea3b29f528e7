package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contactbook/internal/errs"
)

// InvalidBodyMessage is returned for bodies that cannot be bound at all.
const InvalidBodyMessage = "Invalid request body"

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required"`)
// - Implement Validate() error that runs validation.Struct(req)
// - Return validator.ValidationErrors
type Validatable interface {
	Validate() error
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates request struct from the incoming request body/params.
// 2) payload.Validate() applies validation rules.
// 3) Returns *errs.HTTPError (400) naming the first offending field if validation fails.
//
// NOTE: c.Bind expects a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	// Echo's bind errors carry decoder internals; the client gets a fixed
	// message and the cause stays in Details.
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(InvalidBodyMessage, "").WithDetails(err)
	}

	if err := payload.Validate(); err != nil {
		field, msg := FirstError(err)
		return errs.NewBadRequestError(msg, field)
	}

	return nil
}

// FirstError extracts the field and a readable message of the first
// validation failure in err.
func FirstError(err error) (field, message string) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "", "Validation failed"
	}

	fe := validationErrors[0]
	return fe.Field(), describe(fe)
}

// describe converts a validator.FieldError into a user-friendly message.
func describe(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return field + " is required"

	case "min":
		// min tag means:
		// - for strings: minimum length
		// - for numbers: minimum value
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, err.Param())

	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, err.Param())

	case "numeric":
		return field + " must contain digits only"

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, err.Param())

	case ContactNameTag:
		return field + " may only contain letters, spaces and basic punctuation"

	default:
		// Fallback for tags not explicitly handled above.
		if err.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
		}
		return fmt.Sprintf("%s: %s", field, err.Tag())
	}
}

// ContactNameTag is the validator tag for display names.
const ContactNameTag = "contactname"

// contactNameRegex allows letters, whitespace and - . , ' " ( ).
var contactNameRegex = regexp.MustCompile(`^[a-zA-Z\s\-.,'"()]+$`)

// IsValidContactName reports whether name only uses the allowed characters.
// The empty string is not a valid name.
func IsValidContactName(name string) bool {
	return contactNameRegex.MatchString(name)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance.
//
// Field names in errors follow the json tag ("fullName", not "FullName") and
// the contactname tag is registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation(ContactNameTag, func(fl validator.FieldLevel) bool {
			return IsValidContactName(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Validator().Struct(s)
}

// Text is a string that also binds from JSON numbers and null.
//
// Clients send phone numbers and country codes either way
// ("countryCode": 1 or "countryCode": "1").
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*t = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("expected a string or a number: %w", err)
		}
		*t = Text(n.String())
		return nil
	}
}

func (t Text) String() string { return string(t) }
