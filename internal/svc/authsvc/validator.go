package authsvc

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals
var validate = validator.New()

// SignupRequest carries the fields validated during registration.
type SignupRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"` // 72 is the bcrypt input limit
}

// ValidateSignup checks a signup request against the account rules.
func ValidateSignup(req SignupRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	return nil
}
