package apperr

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidatePayload checks the `validate` struct tags of a request and maps
// the first failure to a ValidationFailed error keyed by its json name.
func ValidatePayload(payload any) error {
	err := payloadValidator().Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Validation("", "invalid request payload")
	}
	fe := verrs[0]
	field := fe.Field()
	label := humanize(field)
	switch fe.Tag() {
	case "required", "required_if", "required_without":
		return Validation(field, label+" is required")
	case "email":
		return Validation(field, label+" must be a valid email address")
	case "oneof":
		return Validation(field, label+" must be one of: "+fe.Param())
	case "max":
		return Validation(field, label+" must be at most "+fe.Param()+" characters")
	case "min":
		return Validation(field, label+" must have at least "+fe.Param())
	case "len":
		return Validation(field, label+" must be exactly "+fe.Param()+" characters")
	case "gte", "gt":
		return Validation(field, label+" is out of range")
	default:
		return Validation(field, label+" is invalid")
	}
}

func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.English).String(b.String())
}
