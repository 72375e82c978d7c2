package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var stalenessModes = []string{"day_of_month", "elapsed"}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("staleness_mode", isStalenessMode); err != nil {
		return nil, nil, fmt.Errorf("failed to register staleness_mode validation: %w", err)
	}
	if err := validate.RegisterTranslation("staleness_mode", trans, func(ut ut.Translator) error {
		return ut.Add("staleness_mode", "{0} must be one of "+strings.Join(stalenessModes, ", "), true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("staleness_mode", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register staleness_mode translation: %w", err)
	}

	return validate, trans, nil
}

func isStalenessMode(fl validator.FieldLevel) bool {
	mode := fl.Field().String()
	for _, candidate := range stalenessModes {
		if mode == candidate {
			return true
		}
	}
	return false
}
