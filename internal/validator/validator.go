// Package validator checks request inputs with go-playground/validator and
// turns failures into INVALID_INPUT errors.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("booking_status", validateBookingStatus)
	_ = v.RegisterValidation("signup_role", validateSignupRole)

	return &Validator{validate: v}
}

// Struct validates s and returns an INVALID_INPUT AppError listing every
// failing field
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.InvalidInput(err.Error())
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, translate(fe).Error())
	}
	return apperrors.InvalidInput(strings.Join(messages, "; "))
}

func translate(fe validator.FieldError) ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return ValidationError{Field: field, Message: "is required"}
	case "email":
		return ValidationError{Field: field, Message: "must be a valid email"}
	case "min":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at least %s", fe.Param())}
	case "max":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at most %s", fe.Param())}
	case "gt":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be greater than %s", fe.Param())}
	case "uuid":
		return ValidationError{Field: field, Message: "must be a valid id"}
	case "booking_status":
		return ValidationError{Field: field, Message: "must be a booking status"}
	case "signup_role":
		return ValidationError{Field: field, Message: "must be CUSTOMER or OWNER"}
	default:
		return ValidationError{Field: field, Message: fmt.Sprintf("failed %s validation", fe.Tag())}
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return models.BookingStatus(strings.ToUpper(fl.Field().String())).IsValid()
}

// Admins are never created through signup
func validateSignupRole(fl validator.FieldLevel) bool {
	switch models.UserRole(strings.ToUpper(fl.Field().String())) {
	case models.UserRoleCustomer, models.UserRoleOwner:
		return true
	}
	return false
}
