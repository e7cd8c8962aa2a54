package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/product-catalog/internal/model"
)

const productColumns = `id, name, price, available, created_at, updated_at`

type ProductRepository struct {
	db *Database
}

func NewProductRepository(db *Database) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindAll returns products matching filter, newest first.
func (r *ProductRepository) FindAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	products := []model.Product{}
	var query string
	var args []interface{}

	if filter.Available != nil {
		query = `
			SELECT ` + productColumns + `
			FROM products WHERE available = $1 ORDER BY created_at DESC, id DESC
		`
		args = []interface{}{*filter.Available}
	} else {
		query = `
			SELECT ` + productColumns + `
			FROM products ORDER BY created_at DESC, id DESC
		`
	}

	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	var product model.Product
	query := `
		INSERT INTO products (name, price, available)
		VALUES ($1, $2, $3)
		RETURNING ` + productColumns + `
	`
	err := r.db.QueryRowxContext(ctx, query, p.Name, p.Price, p.Available).StructScan(&product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// Update writes every mutable field of p and bumps updated_at.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	var product model.Product
	query := `
		UPDATE products SET name = $1, price = $2, available = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING ` + productColumns + `
	`
	err := r.db.QueryRowxContext(ctx, query, p.Name, p.Price, p.Available, p.ID).StructScan(&product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE name = $1)`
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return exists, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
