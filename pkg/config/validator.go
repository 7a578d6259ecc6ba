package config

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// profileNamePattern matches credential profile keys such as "support" or "eu-west_2".
var profileNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("profile_name", validateProfileName)
}

func validateProfileName(fl validator.FieldLevel) bool {
	return profileNamePattern.MatchString(fl.Field().String())
}
