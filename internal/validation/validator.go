// Package validation wraps go-playground/validator with the custom
// rules the CRM forms need and translates failures into the domain's
// multi-field validation error.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flyagencia/salesops/internal/domain"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Accepts digits, spaces, parentheses, plus and hyphen only.
	phoneRegex := regexp.MustCompile(`^[\d\s()+-]*$`)
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return phoneRegex.MatchString(value)
	})

	return &Validator{v: v}
}

// Struct validates s and returns a *domain.ErrValidation carrying every
// failed field, or nil. Field names come from the json tag path.
func (v *Validator) Struct(s any) *domain.ErrValidation {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		verr := &domain.ErrValidation{}
		return verr.Add("", err.Error())
	}

	verr := &domain.ErrValidation{}
	for _, fe := range ve {
		verr.Add(fieldName(fe), message(fe))
	}
	return verr
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace is "LeadInput.Name"; drop the struct prefix and
	// lowercase the first letter to match the API's json casing.
	parts := strings.Split(fe.StructNamespace(), ".")
	name := parts[len(parts)-1]
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "max":
		return fmt.Sprintf("máximo de %s caracteres", fe.Param())
	case "gte":
		return "não pode ser negativo"
	case "lte":
		return fmt.Sprintf("valor máximo é %s", fe.Param())
	case "email":
		return "email inválido"
	case "phone":
		return "telefone inválido"
	default:
		return fmt.Sprintf("valor inválido (%s)", fe.Tag())
	}
}
