package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	apperrors "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/pkg/util"
)

// Validator checks request payloads against their `validate` tags.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a validator with the custom role rule registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("role", validateRole); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// Struct validates payload and returns a validation DomainError listing each failed field.
func (val *Validator) Struct(payload any) error {
	err := val.v.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", details)
}

func validateRole(fl validator.FieldLevel) bool {
	_, err := domain.ParseRole(fl.Field().String())
	return err == nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
