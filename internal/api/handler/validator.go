package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// messenger lets a request type word its own validation failures.
type messenger interface {
	validationMessage(fe validator.FieldError) string
}

type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echo.Validator backed by go-playground/validator.
// Failures come back as domain.ErrValidation detail errors.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &echoValidator{v: v}
}

func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}

	// Only the first failure is reported.
	fe := ve[0]
	if m, ok := i.(messenger); ok {
		if msg := m.validationMessage(fe); msg != "" {
			return domain.Reject(domain.ErrValidation, msg)
		}
	}
	return domain.Reject(domain.ErrValidation, fieldError(fe))
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
