package validation

import (
	"testing"

	"github.com/product-catalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string   `json:"name" validate:"required,max=5"`
	Price   *float64 `json:"price" validate:"required"`
	Comment string   `json:"comment,omitempty"`
}

func TestStruct_CollectsFieldErrorsByJSONName(t *testing.T) {
	val := New()
	ve := &model.ValidationError{}

	require.NoError(t, val.Struct(sample{}, ve))

	assert.Equal(t, []string{"this field may not be blank"}, ve.Fields["name"])
	assert.Equal(t, []string{"this field is required"}, ve.Fields["price"])
	assert.NotContains(t, ve.Fields, "comment")
}

func TestStruct_Max(t *testing.T) {
	val := New()
	ve := &model.ValidationError{}
	price := 1.0

	require.NoError(t, val.Struct(sample{Name: "too long", Price: &price}, ve))

	assert.Equal(t, []string{"ensure this field has no more than 5 characters"}, ve.Fields["name"])
	assert.Len(t, ve.Fields, 1)
}

func TestStruct_Valid(t *testing.T) {
	val := New()
	ve := &model.ValidationError{}
	price := 1.0

	require.NoError(t, val.Struct(sample{Name: "ok", Price: &price}, ve))
	assert.False(t, ve.HasErrors())
}

func TestStruct_NonStruct(t *testing.T) {
	val := New()
	ve := &model.ValidationError{}

	assert.Error(t, val.Struct("not a struct", ve))
}
