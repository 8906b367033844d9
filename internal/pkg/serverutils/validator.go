package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"notefiber-todo/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateRequest checks validate tags and turns the first failure into a readable message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.Validation(err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperror.Validation(fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return apperror.Validation(fmt.Sprintf("%s must be a valid email address", fe.Field()))
	case "min":
		return apperror.Validation(fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
	case "max":
		return apperror.Validation(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	default:
		return apperror.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
