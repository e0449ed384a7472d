package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingViolations flattens a binding error into the list of violation
// messages returned to the caller. Field rule failures are all collected and
// reported together; decode-level problems (unknown fields, wrong types,
// malformed JSON) yield a single message.
func bindingViolations(err error) []string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, violationMessage(fe))
		}
		return messages
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("Field '%s' has an invalid type", typeErr.Field)}
	}

	// encoding/json reports unknown-field rejections only as a formatted
	// error string, so match on it.
	if msg := err.Error(); strings.Contains(msg, "unknown field") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return []string{fmt.Sprintf("Unknown field '%s' is not allowed", field)}
	}

	return []string{"Invalid request payload"}
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "email":
		return "Email must be a valid email address"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
