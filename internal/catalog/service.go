// Package catalog validates product input and orchestrates product storage.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/product-catalog/internal/model"
	"github.com/product-catalog/internal/validation"
)

type ProductStore interface {
	FindAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type Service struct {
	products ProductStore
	fields   *validation.Validator
	log      *slog.Logger
}

func NewService(products ProductStore, log *slog.Logger) *Service {
	return &Service{
		products: products,
		fields:   validation.New(),
		log:      log,
	}
}

// List returns every product, newest first.
func (s *Service) List(ctx context.Context) ([]model.Product, error) {
	return s.products.FindAll(ctx, model.ProductFilter{})
}

// ListAvailable returns the products with available set, newest first.
func (s *Service) ListAvailable(ctx context.Context) ([]model.Product, error) {
	return s.products.FindAll(ctx, model.AvailableOnly())
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	p, err := s.validateInput(in, true)
	if err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

// Update replaces name and price of product id. An omitted available keeps
// its stored value.
func (s *Service) Update(ctx context.Context, id int64, in model.ProductInput) (*model.Product, error) {
	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.validateInput(in, current.Available)
	if err != nil {
		return nil, err
	}
	p.ID = id

	return s.products.Update(ctx, p)
}

// PartialUpdate changes only the fields present in patch. An empty patch
// returns the product untouched.
func (s *Service) PartialUpdate(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	ve := &model.ValidationError{}
	if patch.Name != nil {
		current.Name = cleanName(*patch.Name, ve)
	}
	if patch.Price != nil {
		current.Price = cleanPrice(*patch.Price, ve)
	}
	if patch.Available != nil {
		current.Available = *patch.Available
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	return s.products.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

// validateInput checks a create/replace payload and returns the product to
// store. available applies when the payload leaves it out.
func (s *Service) validateInput(in model.ProductInput, available bool) (*model.Product, error) {
	ve := &model.ValidationError{}
	if err := s.fields.Struct(in, ve); err != nil {
		return nil, fmt.Errorf("failed to validate product: %w", err)
	}

	p := &model.Product{Available: available}
	if in.Name != nil {
		p.Name = cleanName(*in.Name, ve)
	}
	if in.Price != nil {
		p.Price = cleanPrice(*in.Price, ve)
	}
	if in.Available != nil {
		p.Available = *in.Available
	}

	if err := ve.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func cleanName(name string, ve *model.ValidationError) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		ve.Add("name", "product name may not be blank")
	case utf8.RuneCountInString(name) > model.ProductNameMaxLength:
		ve.Add("name", fmt.Sprintf("ensure this field has no more than %d characters", model.ProductNameMaxLength))
	}
	return name
}

func cleanPrice(price float64, ve *model.ValidationError) float64 {
	cents := price * 100
	switch {
	case price <= 0:
		ve.Add("price", "price must be greater than zero")
	case math.Abs(cents-math.Round(cents)) > 1e-3:
		ve.Add("price", "ensure that there are no more than 2 decimal places")
	case price > model.ProductPriceMax:
		ve.Add("price", "ensure that there are no more than 10 digits in total")
	}
	return math.Round(cents) / 100
}
