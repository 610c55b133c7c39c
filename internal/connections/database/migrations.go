package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/jmoiron/sqlx"
)

// CurrentSchemaVersion tracks the database schema version
const CurrentSchemaVersion = "1.1.0"

const migrationLockKey int64 = 0x6c61756e // "laun"

// Migration is one schema step. Up is a template: {{pk}}, {{ts}}, {{money}}
// and {{bool}} are replaced with the column types of the connected dialect.
type Migration struct {
	Version string
	Up      string
}

var AllMigrations = []Migration{
	{Version: "1.0.0", Up: migrationV1Up},
	{Version: "1.1.0", Up: migrationV110Up},
}

const schemaVersionDDL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at {{ts}} NOT NULL
)`

const migrationV1Up = `
CREATE TABLE IF NOT EXISTS customers (
    id {{pk}},
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    created_at {{ts}}
);

CREATE TABLE IF NOT EXISTS staff (
    id {{pk}},
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'staff'
);

CREATE TABLE IF NOT EXISTS orders (
    id {{pk}},
    placed_at {{ts}} NOT NULL,
    customer_id BIGINT NOT NULL,
    customer_name TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    items TEXT NOT NULL DEFAULT '',
    service_type TEXT NOT NULL DEFAULT '',
    special_instruction TEXT NOT NULL DEFAULT '',
    sub_total {{money}} NOT NULL,
    tax {{money}} NOT NULL,
    total {{money}} NOT NULL,
    status TEXT NOT NULL,
    staff_id BIGINT
);

CREATE TABLE IF NOT EXISTS order_status_log (
    id {{pk}},
    order_id BIGINT NOT NULL,
    status TEXT NOT NULL,
    changed_by TEXT NOT NULL DEFAULT '',
    changed_at {{ts}} NOT NULL,
    notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notifications (
    id {{pk}},
    recipient_kind TEXT NOT NULL,
    recipient_id BIGINT NOT NULL,
    message TEXT NOT NULL,
    type TEXT NOT NULL,
    entity_id BIGINT NOT NULL,
    entity_type TEXT NOT NULL,
    created_at {{ts}} NOT NULL,
    is_read {{bool}} NOT NULL DEFAULT FALSE,
    read_at {{ts}}
);

CREATE TABLE IF NOT EXISTS reviews (
    id {{pk}},
    customer_id BIGINT NOT NULL,
    order_id BIGINT,
    rating INTEGER,
    comment TEXT NOT NULL DEFAULT '',
    created_at {{ts}}
);

CREATE TABLE IF NOT EXISTS reports (
    id {{pk}},
    completed_order_count BIGINT NOT NULL,
    total_customers BIGINT NOT NULL,
    total_income {{money}} NOT NULL,
    report_date {{ts}} NOT NULL,
    time_range TEXT NOT NULL,
    generated_by TEXT NOT NULL
)
`

const migrationV110Up = `
CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders (placed_at);
CREATE INDEX IF NOT EXISTS idx_status_log_order ON order_status_log (order_id, changed_at);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_kind, recipient_id, created_at);
CREATE INDEX IF NOT EXISTS idx_reports_date ON reports (report_date)
`

var dialects = map[string]*strings.Replacer{
	PostgresDriverName: strings.NewReplacer(
		"{{pk}}", "BIGSERIAL PRIMARY KEY",
		"{{ts}}", "TIMESTAMPTZ",
		"{{money}}", "NUMERIC(12,2)",
		"{{bool}}", "BOOLEAN",
	),
	SQLiteDriverName: strings.NewReplacer(
		"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{ts}}", "DATETIME",
		"{{money}}", "TEXT",
		"{{bool}}", "BOOLEAN",
	),
}

// Render expands a DDL template for the given driver.
func Render(driverName, ddl string) (string, error) {
	r, ok := dialects[driverName]
	if !ok {
		return "", fmt.Errorf("no DDL dialect for driver %q", driverName)
	}
	return r.Replace(ddl), nil
}

// Migrate applies every migration newer than the recorded schema version.
// Each migration and its schema_version row commit together.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if err := execScript(ctx, db, db.DriverName(), schemaVersionDDL); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range AllMigrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		if !current.LessThan(v) {
			continue
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", m.Version, err)
		}
		applied, err := claimMigration(ctx, tx, m.Version)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("lock migration %s: %w", m.Version, err)
		}
		if applied {
			_ = tx.Rollback()
			current = v
			continue
		}
		if err := execScript(ctx, tx, db.DriverName(), m.Up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`),
			m.Version, time.Now().UTC()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.Version, err)
		}
		current = v
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(ctx context.Context, db *sqlx.DB) (string, error) {
	v, err := currentVersion(ctx, db)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func currentVersion(ctx context.Context, db *sqlx.DB) (*semver.Version, error) {
	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_version`); err != nil {
		return nil, fmt.Errorf("read schema_version: %w", err)
	}
	current := semver.MustParse("0.0.0")
	for _, s := range applied {
		v, err := semver.NewVersion(s)
		if err != nil {
			return nil, fmt.Errorf("invalid schema version %s: %w", s, err)
		}
		if v.GreaterThan(current) {
			current = v
		}
	}
	return current, nil
}

// claimMigration serializes concurrent starters on Postgres with a
// transaction-scoped advisory lock, then reports whether another process
// already recorded version.
func claimMigration(ctx context.Context, tx *sqlx.Tx, version string) (bool, error) {
	if tx.DriverName() == PostgresDriverName {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockKey); err != nil {
			return false, err
		}
	}
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM schema_version WHERE version = ?`), version); err != nil {
		return false, err
	}
	return n > 0, nil
}

func execScript(ctx context.Context, ex sqlx.ExecerContext, driverName, script string) error {
	ddl, err := Render(driverName, script)
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
