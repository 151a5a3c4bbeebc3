package validator

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/strcase"
)

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCRMRules(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	return ValidationError(lo.Map(validateErrs, func(fe validator.FieldError, _ int) goerror.FieldError {
		return goerror.FieldError{
			Field:   strcase.ToLowerSnake(fe.Field()),
			Message: fe.Translate(v.translator),
		}
	}))
}

func fieldString(fl validator.FieldLevel) (string, bool) {
	s, ok := fl.Field().Interface().(string)
	return s, ok
}

func registerCRMRules(validate *validator.Validate, trans ut.Translator) error {
	rules := []struct {
		tag     string
		fn      validator.Func
		message func(fe validator.FieldError) string
	}{
		{
			tag: "crm_email",
			fn: func(fl validator.FieldLevel) bool {
				s, ok := fieldString(fl)
				return ok && fieldrule.Email(s) == ""
			},
			message: func(validator.FieldError) string { return fieldrule.MsgEmail },
		},
		{
			tag: "crm_phone",
			fn: func(fl validator.FieldLevel) bool {
				s, ok := fieldString(fl)
				return ok && fieldrule.Phone(s) == ""
			},
			message: func(fe validator.FieldError) string {
				s, _ := fe.Value().(string)
				if msg := fieldrule.Phone(s); msg != "" {
					return msg
				}
				return fieldrule.MsgPhoneChars
			},
		},
		{
			tag: "oneof_ci",
			fn: func(fl validator.FieldLevel) bool {
				s, ok := fieldString(fl)
				if !ok {
					return false
				}
				return lo.ContainsBy(strings.Fields(fl.Param()), func(opt string) bool {
					return strings.EqualFold(opt, strings.TrimSpace(s))
				})
			},
			message: func(fe validator.FieldError) string {
				return strcase.ToLowerSnake(fe.Field()) + " must be one of [" + fe.Param() + "]"
			},
		},
	}

	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return err
		}

		message := rule.message
		err := validate.RegisterTranslation(rule.tag, trans,
			func(ut.Translator) error { return nil },
			func(_ ut.Translator, fe validator.FieldError) string { return message(fe) },
		)
		if err != nil {
			slog.Warn("validator: failed to register translation", "tag", rule.tag, "error", err)
			return err
		}
	}

	return nil
}
