package account

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation tags registered by RegisterValidations
const (
	TagUsername       = "username"
	TagStrongPassword = "strongpassword"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// RegisterValidations adds the account field rules to v so request structs can
// use them as struct tags.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation(TagUsername, validateUsername); err != nil {
		return err
	}
	return v.RegisterValidation(TagStrongPassword, validateStrongPassword)
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// validateStrongPassword requires an upper-case letter, a lower-case letter and a digit.
// Length is left to min/max tags.
func validateStrongPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// The tag names are constants, registration cannot fail.
	_ = RegisterValidations(v)
	return v
}
