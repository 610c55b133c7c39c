package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"laundry-service/internal/config"
)

// PostgresDriverName is the database/sql name registered by pgx/v5/stdlib.
const PostgresDriverName = "pgx"

// ConnectDB opens the configured store. Postgres is retried until it answers
// a ping; SQLite is opened once and pinned to a single connection.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return connectSQLite(ctx, cfg.Path)
	case config.DriverPostgres, "":
		return connectPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslmode)

	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var db *sqlx.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		db, err = sqlx.Open(PostgresDriverName, dsn)
		if err != nil {
			select {
			case <-time.After(retryDelay):
				continue
			case <-ctx.Done():
				return nil, fmt.Errorf("db open canceled: %w", ctx.Err())
			}
		}

		pctx, cancel := context.WithTimeout(ctx, pingTTL)
		err = db.PingContext(pctx)
		cancel()
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(30 * time.Minute)
			return db, nil
		}

		_ = db.Close()

		select {
		case <-time.After(retryDelay):
			continue
		case <-ctx.Done():
			return nil, fmt.Errorf("db ping canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

func connectSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(SQLiteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection: writers serialize and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// ForUpdate returns the row-lock suffix for a SELECT inside a transaction.
// SQLite has no row locks; its single writer already serializes.
func ForUpdate(q sqlx.ExtContext) string {
	if q.DriverName() == PostgresDriverName {
		return " FOR UPDATE"
	}
	return ""
}
