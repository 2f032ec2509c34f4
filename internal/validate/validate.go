// Package validate checks request payloads against their struct tags and
// reports the first failure as a translated, user-facing message.
package validate

import (
	"errors"
	"reflect"
	"regexp"

	"bookstore/internal/model"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

// At most 4 integer digits and 2 fractional digits, never negative.
var priceRe = regexp.MustCompile(`^\d{1,4}(\.\d{1,2})?$`)

var validate *validator.Validate

var translator ut.Translator

func init() {
	validate = validator.New()

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	validate.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return priceRe.MatchString(fl.Field().String())
	})

	validate.RegisterTranslation("price", translator,
		func(ut ut.Translator) error {
			return ut.Add("price", "{0} must be between 0 and 9999.99 with at most two decimal places", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("price", fe.Field())
			return t
		},
	)
}

// Check validates val and returns a *model.DomainError with code
// VALIDATION_FAILED describing the first invalid field.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		if len(verrors) < 1 {
			return nil
		}

		return model.NewDomainError(model.ErrCodeValidationFailed, verrors[0].Translate(translator))
	}

	return nil
}
