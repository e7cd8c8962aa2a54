package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/product-catalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO users \(username, email, password_hash, first_name, last_name\)`).
		WithArgs("alice", "alice@example.com", "hash", "Alice", "Smith").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "alice", "alice@example.com", "hash", "Alice", "Smith", fixedTime))

	got, err := repo.Create(context.Background(), &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Alice", got.FirstName)
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"users_username_key", "username"},
		{"users_email_key", "email"},
		{"something_else", "non_field_errors"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			db, mock := newMockDatabase(t)
			repo := NewUserRepository(db)

			mock.ExpectQuery(`(?s)INSERT INTO users`).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

			_, err := repo.Create(context.Background(), &model.User{Username: "alice"})
			ve, ok := model.IsValidationError(err)
			require.True(t, ok, "want validation error, got %v", err)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestUserRepository_Create_OtherPQError(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "08006", Message: "connection failure"})

	_, err := repo.Create(context.Background(), &model.User{Username: "alice"})
	require.Error(t, err)
	_, isValidation := model.IsValidationError(err)
	assert.False(t, isValidation)
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "alice", "alice@example.com", "hash", "Alice", "Smith", fixedTime))
	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))

	got, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}
