package model

import "time"

const (
	ProductNameMaxLength = 200
	// NUMERIC(10,2)
	ProductPriceMax = 99999999.99
)

type Product struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Available bool      `json:"available" db:"available"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductInput is the payload for create and full update. Name and price are
// required; available defaults to true when omitted.
type ProductInput struct {
	Name      *string  `json:"name" validate:"required"`
	Price     *float64 `json:"price" validate:"required"`
	Available *bool    `json:"available"`
}

// ProductPatch is the payload for partial update. Nil fields keep their stored value.
type ProductPatch struct {
	Name      *string  `json:"name"`
	Price     *float64 `json:"price"`
	Available *bool    `json:"available"`
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Available == nil
}

// ProductFilter narrows a product listing. A nil Available matches every product.
type ProductFilter struct {
	Available *bool
}

func AvailableOnly() ProductFilter {
	available := true
	return ProductFilter{Available: &available}
}

// Matches reports whether p passes the filter.
func (f ProductFilter) Matches(p Product) bool {
	return f.Available == nil || p.Available == *f.Available
}
