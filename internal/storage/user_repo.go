package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/product-catalog/internal/model"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, created_at`

type UserRepository struct {
	db *Database
}

func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u. A concurrent insert that loses the race on username or
// email comes back as a *model.ValidationError.
func (r *UserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	var user model.User
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns + `
	`
	err := r.db.QueryRowxContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName).
		StructScan(&user)
	if err != nil {
		if verr := translateUniqueViolation(err); verr != err {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, arg); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}
