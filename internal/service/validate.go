package service

import (
	"errors"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"employee-portal/internal/domain"
)

var mobileRe = regexp.MustCompile(`^[0-9]{10}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	return v
}

// fieldErrors flattens validator output into the domain shape. dive errors
// such as course[1] are reported against the parent field.
func fieldErrors(err error) []domain.FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []domain.FieldError{{Field: "body", Rule: "invalid"}}
	}
	out := make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		field, _, _ := strings.Cut(fe.Field(), "[")
		out = append(out, domain.FieldError{Field: field, Rule: fe.Tag()})
	}
	return out
}

// allowList reports value as invalid when list is non-empty and does not
// contain it. Empty values are left to the required rule.
func allowList(field, value string, list []string) []domain.FieldError {
	if value == "" || len(list) == 0 || slices.Contains(list, value) {
		return nil
	}
	return []domain.FieldError{{Field: field, Rule: "oneof"}}
}
