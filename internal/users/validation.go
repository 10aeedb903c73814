package users

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

func (s *Service) validate(in any) error {
	if err := s.validator.Struct(in); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", shared.ErrValidation, describeFieldError(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "phone":
		return "phone must be a valid phone number"
	case "min", "max":
		return fmt.Sprintf("%s length is out of range", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
