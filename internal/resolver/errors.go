package resolver

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const (
	// CodeInvalidPokemonID is the code clients already match on for an id
	// outside the Pokédex range.
	CodeInvalidPokemonID = "404"
	CodeBadUserInput     = "BAD_USER_INPUT"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// validate checks args and converts a failure into a client-facing error.
func (r *Resolver) validate(args any, operation string) error {
	err := r.validator.Struct(args)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return internalError(err, operation)
	}

	var messages []string
	for _, fe := range validationErrors {
		if fe.Tag() == "pokemonid" {
			return &gqlerror.Error{
				Message: pokemonIDMessage,
				Extensions: map[string]interface{}{
					"code":      CodeInvalidPokemonID,
					"operation": operation,
				},
			}
		}
		messages = append(messages, fe.Translate(r.translator))
	}
	return &gqlerror.Error{
		Message: strings.Join(messages, ", "),
		Extensions: map[string]interface{}{
			"code":      CodeBadUserInput,
			"operation": operation,
		},
	}
}

func internalError(err error, operation string) error {
	return &gqlerror.Error{
		Message: "Internal server error",
		Err:     err,
		Extensions: map[string]interface{}{
			"code":      CodeInternal,
			"operation": operation,
		},
	}
}

// Code returns the code extension of a client-facing error, if any.
func Code(err error) string {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		return ""
	}
	code, _ := gqlErr.Extensions["code"].(string)
	return code
}
