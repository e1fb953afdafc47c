package dto

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/worker-portal/internal/service"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("nationalid", func(fl validator.FieldLevel) bool {
		return service.ValidNationalID(fl.Field().String())
	})
	_ = v.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return service.ValidPhone(fl.Field().String())
	})
	return v
}

// normalizer is implemented by requests whose fields are cleaned up before
// tag validation. Only pointer requests can be normalized in place.
type normalizer interface {
	Normalize()
}

// Validate checks struct tags on a request and returns a VALIDATION_FAILED
// error keyed by JSON field name.
func Validate(req any) error {
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errorutil.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(errs))
	for _, fe := range errs {
		if _, seen := details[fe.Field()]; !seen {
			details[fe.Field()] = fieldMessage(fe)
		}
	}
	return errorutil.NewValidationError("validation failed", details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "nationalid":
		return "national ID must be exactly 12 digits"
	case "inphone":
		return "phone must be a 10-digit mobile number"
	default:
		return fmt.Sprintf("%s failed the %s check", fe.Field(), fe.Tag())
	}
}
