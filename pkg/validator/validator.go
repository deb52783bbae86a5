// Package validator wraps go-playground/validator and converts tag failures
// into the field-keyed map used across the API. Field paths follow the JSON
// names of the request struct, with slice indexes inlined: "items.2.quantity".
package validator

import (
	"reflect"
	"strings"

	"stockroom/internal/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

func init() {
	// Report fields by their json tag, not the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

// Struct validates a request struct, returning a *apierror.ValidationError
// (as error) when any tag fails, nil otherwise.
func Struct(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := apierror.NewValidation()
	for _, fe := range verrs {
		out.Add(fieldPath(fe.Namespace()), messageFor(fe))
	}
	return out
}

// fieldPath turns "CreateRecordRequest.items[2].quantity" into
// "items.2.quantity".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	ns = strings.ReplaceAll(ns, "]", "")
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "uuid_required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
