package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Err(t *testing.T) {
	var empty ValidationError
	assert.NoError(t, empty.Err())

	var nilErr *ValidationError
	assert.False(t, nilErr.HasErrors())

	e := &ValidationError{}
	e.Add("price", "must be greater than zero")
	e.Add("name", "may not be blank")
	e.Add("name", "too long")

	require.Error(t, e.Err())
	assert.Equal(t, "validation failed: name: may not be blank; too long, price: must be greater than zero", e.Error())
}

func TestIsValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("create product: %w", NewValidationError("price", "must be greater than zero"))

	ve, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"must be greater than zero"}, ve.Fields["price"])

	_, ok = IsValidationError(errors.New("boom"))
	assert.False(t, ok)
}

func TestProductFilter_Matches(t *testing.T) {
	on := Product{Name: "Mouse", Available: true}
	off := Product{Name: "Headset", Available: false}

	all := ProductFilter{}
	assert.True(t, all.Matches(on))
	assert.True(t, all.Matches(off))

	avail := AvailableOnly()
	assert.True(t, avail.Matches(on))
	assert.False(t, avail.Matches(off))
}

func TestProductPatch_IsEmpty(t *testing.T) {
	assert.True(t, ProductPatch{}.IsEmpty())
	available := false
	assert.False(t, ProductPatch{Available: &available}.IsEmpty())
}
