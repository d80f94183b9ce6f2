// Package validator wraps go-playground/validator with the client's
// form-level rules. Payloads are checked before they leave the client so
// the forms can show field errors without a round-trip.
package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single failed field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerRules()
	return v
}

// Validate checks a struct against its validate tags and the registered
// custom rules. Returns nil when everything passes.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errors = append(errors, ValidationError{
			Field:   fieldErr.Field(),
			Message: errorMessage(fieldErr),
			Value:   fieldErr.Value(),
			Rule:    fieldErr.Tag(),
		})
	}
	return errors
}

// registerRules adds the custom rules used by the form payloads.
func (v *Validator) registerRules() {
	// Course codes look like "CS101": letters then digits.
	v.validate.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		code := strings.TrimSpace(fl.Field().String())
		if len(code) < 3 || len(code) > 12 {
			return false
		}
		i := 0
		for i < len(code) && code[i] >= 'A' && code[i] <= 'Z' {
			i++
		}
		if i == 0 {
			return false
		}
		for ; i < len(code); i++ {
			if code[i] < '0' || code[i] > '9' {
				return false
			}
		}
		return true
	})

	// Academic years within a sane window.
	v.validate.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		current := time.Now().Year()
		return year >= current-1 && year <= current+2
	})

	// Due dates must not be in the past.
	v.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return t.After(time.Now())
	})
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "course_code":
		return "must look like CS101 (uppercase letters then digits)"
	case "academic_year":
		return "is outside the allowed academic year range"
	case "future_date":
		return "must be in the future"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
