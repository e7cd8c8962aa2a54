package catalog

import (
	"context"
	"fmt"

	"github.com/product-catalog/internal/model"
)

// SampleProducts is the demo catalog loaded when seeding is enabled.
func SampleProducts() []model.ProductInput {
	return []model.ProductInput{
		sample("Smartphone Samsung Galaxy", 899.99, true),
		sample("Notebook Dell Inspiron", 1299.90, true),
		sample("Fone Bluetooth JBL", 149.50, false),
		sample("Mouse Logitech MX", 89.90, true),
		sample("Teclado Mecânico Razer", 199.99, true),
	}
}

func sample(name string, price float64, available bool) model.ProductInput {
	return model.ProductInput{Name: &name, Price: &price, Available: &available}
}

// Seed creates each product whose name is not in the catalog yet and returns
// how many were created. Running it twice is harmless.
func (s *Service) Seed(ctx context.Context, items []model.ProductInput) (int, error) {
	created := 0
	for _, item := range items {
		if item.Name == nil {
			continue
		}

		exists, err := s.products.ExistsByName(ctx, *item.Name)
		if err != nil {
			return created, fmt.Errorf("failed to seed products: %w", err)
		}
		if exists {
			s.log.InfoContext(ctx, "sample product already exists", "name", *item.Name)
			continue
		}

		if _, err := s.Create(ctx, item); err != nil {
			return created, fmt.Errorf("failed to seed product %q: %w", *item.Name, err)
		}
		created++
	}

	total, err := s.products.Count(ctx)
	if err != nil {
		return created, fmt.Errorf("failed to count products: %w", err)
	}

	s.log.InfoContext(ctx, "sample data loaded", "created", created, "total", total)
	return created, nil
}
