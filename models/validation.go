package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under the names clients send them as.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct runs the struct's validate tags and returns one message per
// failing field, or nil when s is valid.
func ValidateStruct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = field + " is required"
		case "oneof":
			out[field] = field + " must be one of " + e.Param()
		case "gte":
			out[field] = field + " must be greater than or equal to " + e.Param()
		case "lte":
			out[field] = field + " must be less than or equal to " + e.Param()
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}
