package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/product-catalog/internal/model"
)

type TokenRepository struct {
	db *Database
}

func NewTokenRepository(db *Database) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetOrCreate stores key for userID unless the user already holds a token, in
// which case the existing token is returned and key is discarded. The upsert
// makes this atomic per user.
func (r *TokenRepository) GetOrCreate(ctx context.Context, userID int64, key string) (*model.Token, error) {
	var token model.Token
	query := `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING key, user_id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, key, userID).StructScan(&token)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create token: %w", err)
	}

	return &token, nil
}

// FindUserByKey resolves a token key to its owner.
func (r *TokenRepository) FindUserByKey(ctx context.Context, key string) (*model.User, error) {
	var user model.User
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.created_at
		FROM auth_tokens t JOIN users u ON u.id = t.user_id
		WHERE t.key = $1
	`
	err := r.db.GetContext(ctx, &user, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return &user, nil
}

func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	query := `DELETE FROM auth_tokens WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if rows == 0 {
		return model.ErrTokenNotFound
	}

	return nil
}
