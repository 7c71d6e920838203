package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError names one offending field with a human-readable reason.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field error collected for one payload.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Fields lists the offending field names.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

var (
	once     sync.Once
	instance *validator.Validate
)

func v() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		// Report errors under the json field name the client submitted.
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return instance
}

// Struct checks a payload against its validate tags. On failure it returns a
// *ValidationError with every violated rule, not just the first one.
func Struct(payload any) error {
	err := v().Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	collected := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		collected = append(collected, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return &ValidationError{Errors: collected}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "datetime":
		if fe.Param() == "15:04" {
			return "Please select a valid time (HH:MM)"
		}
		return "Please select a valid date (YYYY-MM-DD)"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
