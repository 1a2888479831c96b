package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validate is a type alias for validator.Validate.
type Validate = validator.Validate

// ValidationErrors is a type alias for validator.ValidationErrors.
type ValidationErrors = validator.ValidationErrors

// FieldError is a type alias for validator.FieldError.
type FieldError = validator.FieldError

var baseNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// New creates a new validator instance with the project's custom tags registered.
//
//	basename: letters, digits, '_' and '-' only (safe as a file name prefix)
func New() *Validate {
	v := validator.New()
	_ = v.RegisterValidation("basename", func(fl validator.FieldLevel) bool {
		return baseNamePattern.MatchString(fl.Field().String())
	})
	return v
}
