package storage

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var (
	productCols = []string{"id", "name", "price", "available", "created_at", "updated_at"}
	userCols    = []string{"id", "username", "email", "password_hash", "first_name", "last_name", "created_at"}
	fixedTime   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return &Database{DB: sqlx.NewDb(db, "postgres")}, mock
}
