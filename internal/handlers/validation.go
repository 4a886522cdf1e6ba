package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationMessage summarizes a validation failure. Missing fields win
// over malformed ones.
func validationMessage(err error, missing string) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return missing
	}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			return missing
		}
	}
	e := validationErrors[0]
	switch e.Tag() {
	case "email":
		return msgInvalidEmail
	case "max":
		return fmt.Sprintf("Field '%s' must be at most %s characters", strings.ToLower(e.Field()), e.Param())
	default:
		return fmt.Sprintf("Field '%s' is invalid", strings.ToLower(e.Field()))
	}
}

// fieldErrors turns validator errors into a field -> message map.
func fieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"body": err.Error()}
	}
	messages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		messages[field] = fmt.Sprintf("Field '%s' failed on the '%s' tag", field, e.Tag())
	}
	return messages
}
