package tenancy

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Tenant ids double as URL path segments and database keys.
	_ = v.RegisterValidation("tenantid", func(fl validator.FieldLevel) bool {
		return tenantIDPattern.MatchString(fl.Field().String())
	})
	return v
}

func (s *Service) validate(in any) error {
	if err := s.validator.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", shared.ErrValidation, describeFieldError(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if errs, ok := err.(validator.ValidationErrors); ok {
		*target = errs
		return true
	}
	return false
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "tenantid":
		return "tenant id can only contain letters, numbers, and hyphens"
	case "min", "max":
		return fmt.Sprintf("%s length is out of range", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
