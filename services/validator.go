package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"inventory-order-service/apperrors"

	"github.com/go-playground/validator/v10"
)

// RequestValidator checks request structs carrying `validate` tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Struct returns a Validation error listing every failing field, or nil.
func (rv *RequestValidator) Struct(s interface{}) error {
	err := rv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation(err.Error())
	}

	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	appErr := apperrors.Validation("Validation failed")
	appErr.Details = details
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "email":
		return "must be a valid email address"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
