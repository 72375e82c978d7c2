package resolver

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	MinPokemonID = 1
	MaxPokemonID = 949
)

var pokemonIDMessage = fmt.Sprintf("Pokemon's id must be between %d and %d", MinPokemonID, MaxPokemonID)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("pokemonid", isPokemonID); err != nil {
		return nil, nil, fmt.Errorf("failed to register pokemonid validation: %w", err)
	}
	if err := validate.RegisterTranslation("pokemonid", trans, func(ut ut.Translator) error {
		return ut.Add("pokemonid", pokemonIDMessage, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("pokemonid")
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register pokemonid translation: %w", err)
	}

	return validate, trans, nil
}

func isPokemonID(fl validator.FieldLevel) bool {
	id := fl.Field().Int()
	return id >= MinPokemonID && id <= MaxPokemonID
}

type pokemonIDArgs struct {
	PokemonID int `json:"pokemonId" validate:"pokemonid"`
}

type statsArgs struct {
	Type1 string `json:"type1" validate:"required"`
	Type2 string `json:"type2"`
}

type listArgs struct {
	Start int `json:"start" validate:"gte=0"`
	End   int `json:"end" validate:"gte=0"`
}
