package storage

import (
	"errors"

	"github.com/lib/pq"
	"github.com/product-catalog/internal/model"
)

const uniqueViolation = pq.ErrorCode("23505")

// constraint name -> (field, message)
var uniqueConstraints = map[string][2]string{
	"users_username_key": {"username", "a user with that username already exists"},
	"users_email_key":    {"email", "a user with that email already exists"},
}

// translateUniqueViolation turns a postgres unique violation on a known
// constraint into a field-level validation error. Other errors pass through.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}

	if fm, ok := uniqueConstraints[pqErr.Constraint]; ok {
		return model.NewValidationError(fm[0], fm[1])
	}
	return model.NewValidationError("non_field_errors", "duplicate value violates a uniqueness constraint")
}
