// Package dbtest opens a migrated in-memory SQLite store for repository tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"laundry-service/internal/config"
	"laundry-service/internal/connections/database"
)

func New(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.ConnectDB(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return db
}
