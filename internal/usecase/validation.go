package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/xavierca1/clientbook/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return isValidPhoneNumber(fl.Field().String())
	})
	v.RegisterValidation("email_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || v.Var(s, "email") == nil
	})

	registerOption(v, "client_source", entity.ClientSourceOptions)
	registerOption(v, "first_approach", entity.FirstApproachOptions)
	registerOption(v, "payment_option", entity.PaymentOptions)
	registerOption(v, "script_language", entity.ScriptLanguages)

	v.RegisterValidation("client_response", func(fl validator.FieldLevel) bool {
		return entity.ClientResponse(fl.Field().String()).Known()
	})
	v.RegisterValidation("client_response_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || entity.ClientResponse(s).Known()
	})

	v.RegisterValidation("non_negative", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl.Field())
		return ok && !d.IsNegative()
	})
	v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl.Field())
		return ok && d.IsPositive()
	})

	return v
}

func registerOption(v *validator.Validate, tag string, options []string) {
	v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return entity.IsOption(options, fl.Field().String())
	})
	v.RegisterValidation(tag+"_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || entity.IsOption(options, s)
	})
}

// decimal fields reach the custom rules as their string form
func decimalOf(f reflect.Value) (decimal.Decimal, bool) {
	if f.Kind() != reflect.String {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(f.String())
	return d, err == nil
}

// Validate runs the struct tags and maps failures to ValidationErrors.
func Validate(input any) []ValidationError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "body", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "email", "email_or_empty":
		return "is invalid"
	case "min":
		return "must have at least " + fe.Param() + " characters"
	case "max":
		return "must not exceed " + fe.Param() + " characters"
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "phone":
		return "must be a valid phone number"
	case "client_response", "client_response_or_empty":
		return "must be one of [positive negative callback-later not-received-call]"
	case "client_source", "client_source_or_empty",
		"first_approach", "first_approach_or_empty",
		"payment_option", "payment_option_or_empty",
		"script_language", "script_language_or_empty":
		return "is not a known option"
	case "non_negative":
		return "must not be negative"
	case "positive":
		return "must be greater than zero"
	}
	return "failed on the '" + fe.Tag() + "' rule"
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")

	return len(cleaned) >= 7 && len(cleaned) <= 15
}
