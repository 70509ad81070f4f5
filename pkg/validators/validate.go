// Package validators wraps go-playground/validator with the storefront's
// field tags and turns failures into VALIDATION_ERROR with per-field messages.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	postalPattern = regexp.MustCompile(`^[0-9]{6}$`)
	cardPattern   = regexp.MustCompile(`^[0-9]{16}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvvPattern    = regexp.MustCompile(`^[0-9]{3}$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() { validate = newValidator() })
	return validate
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "phone", matcher(phonePattern, nil))
	mustRegister(v, "postal", matcher(postalPattern, nil))
	mustRegister(v, "cardnumber", matcher(cardPattern, StripSpaces))
	mustRegister(v, "expiry", matcher(expiryPattern, nil))
	mustRegister(v, "cvv", matcher(cvvPattern, nil))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func matcher(pattern *regexp.Regexp, clean func(string) string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		if clean != nil {
			value = clean(value)
		}
		return pattern.MatchString(value)
	}
}

// StripSpaces removes blanks, as users type card numbers in groups.
func StripSpaces(value string) string {
	return strings.Join(strings.Fields(value), "")
}

// Struct validates v. The returned error is a VALIDATION_ERROR whose
// FieldErrors map json field names to messages.
func Struct(v any) error {
	if err := instance().Struct(v); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			if _, seen := details[fieldErr.Field()]; seen {
				continue
			}
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "please correct the highlighted fields").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "phone":
		return "must be a 10-digit phone number"
	case "postal":
		return "must be a 6-digit postal code"
	case "cardnumber":
		return "must be a 16-digit card number"
	case "expiry":
		return "must be a valid expiry (MM/YY)"
	case "cvv":
		return "must be a 3-digit CVV"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}
