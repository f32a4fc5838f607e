// Package validation validates request DTOs with go-playground/validator and
// converts failures to validation AppErrors.
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"twilio-gateway/internal/common/errors"
)

// PhoneDigits is the number of digits a local phone number must contain.
const PhoneDigits = 10

// FieldError describes a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Validator wraps a configured validator.Validate. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New returns a validator with the gateway's custom tags registered. Field
// names in messages come from json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// phone: exactly PhoneDigits digits once separators are ignored.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhoneNumber(fl.Field().String())
	})

	// notblank is stricter than required for strings.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

var defaultValidator = New()

// Struct validates s with the shared validator.
func Struct(s interface{}) error {
	return defaultValidator.Struct(s)
}

// Struct validates s and returns a validation AppError listing every failure.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fields := v.FieldErrors(err)
	messages := make([]string, len(fields))
	for i, f := range fields {
		messages[i] = f.Message
	}

	appErr := errors.ValidationError(strings.Join(messages, "; "))
	if len(fields) > 0 {
		appErr = appErr.WithContext("fields", fields)
	}
	return appErr
}

// FieldErrors flattens validator errors. Foreign errors become a single entry.
func (v *Validator) FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return []FieldError{{Field: "unknown", Tag: "error", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("field '%s' is required", fe.Field())
	case "phone":
		return fmt.Sprintf("field '%s' must contain exactly %d digits", fe.Field(), PhoneDigits)
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters long", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field '%s' failed validation: %s", fe.Field(), fe.Tag())
	}
}

// IsPhoneNumber reports whether s holds exactly PhoneDigits digits, ignoring
// any other characters.
func IsPhoneNumber(s string) bool {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n == PhoneDigits
}
