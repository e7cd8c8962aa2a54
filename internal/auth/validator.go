package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/product-catalog/internal/model"
	"github.com/product-catalog/internal/validation"
)

// UserLookup is the read-only slice of the user store the validator needs.
type UserLookup interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Validator checks registration and login input before anything is written.
// Its uniqueness checks are advisory; the store's constraints are authoritative.
type Validator struct {
	users             UserLookup
	fields            *validation.Validator
	minPasswordLength int
}

func NewValidator(users UserLookup, minPasswordLength int) *Validator {
	return &Validator{
		users:             users,
		fields:            validation.New(),
		minPasswordLength: minPasswordLength,
	}
}

// ValidateRegistration returns the request with every field but the password
// trimmed, or a *model.ValidationError
// listing every failing field.
func (v *Validator) ValidateRegistration(ctx context.Context, req model.RegisterRequest) (model.RegisterRequest, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	ve := &model.ValidationError{}
	if err := v.fields.Struct(req, ve); err != nil {
		return req, err
	}

	switch {
	case req.Password == "":
	case strings.TrimSpace(req.Password) == "":
		ve.Add("password", "this field may not be blank")
	case len([]rune(req.Password)) < v.minPasswordLength:
		ve.Add("password", fmt.Sprintf("ensure this field has at least %d characters", v.minPasswordLength))
	}

	if _, failed := ve.Fields["username"]; !failed {
		taken, err := v.users.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return req, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			ve.Add("username", "a user with that username already exists")
		}
	}

	if _, failed := ve.Fields["email"]; !failed {
		taken, err := v.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return req, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			ve.Add("email", "a user with that email already exists")
		}
	}

	return req, ve.Err()
}

// ValidateLogin only checks that both fields are present. The password is
// kept as given.
func (v *Validator) ValidateLogin(req model.LoginRequest) (model.LoginRequest, error) {
	req.Username = strings.TrimSpace(req.Username)

	ve := &model.ValidationError{}
	if err := v.fields.Struct(req, ve); err != nil {
		return req, err
	}
	return req, ve.Err()
}
