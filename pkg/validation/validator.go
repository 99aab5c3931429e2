package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Custom validator instance
	validate = validator.New()
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

func init() {
	validate.RegisterValidation("urltemplate", validateURLTemplate)
}

// validateURLTemplate requires a rate provider URL template with a {base}
// placeholder and an http(s) scheme.
func validateURLTemplate(fl validator.FieldLevel) bool {
	tmpl, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if !strings.HasPrefix(tmpl, "http://") && !strings.HasPrefix(tmpl, "https://") {
		return false
	}
	return strings.Contains(tmpl, "{base}")
}

// ValidateStruct validates a struct using tags. It returns nil when s is valid.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: getErrorMessage(fe.Field(), fe.Tag(), fe.Param()),
			Value:   fe.Value(),
		})
	}
	return out
}

// getErrorMessage returns a user-friendly error message
func getErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "urltemplate":
		return fmt.Sprintf("%s must be an http(s) URL containing a {base} placeholder", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes and control characters
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 { // Keep tab, newline, carriage return
			return -1
		}
		return r
	}, s)

	// Trim whitespace
	return strings.TrimSpace(s)
}

// NormalizeCurrency sanitises a currency code and upper-cases it.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(SanitizeString(code))
}
