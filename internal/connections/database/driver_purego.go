//go:build !sqlite_cgo

package database

// Pure Go SQLite, no C toolchain needed:
//
//	CGO_ENABLED=0 go build ./...

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	SQLiteDriverName = "sqlite"
	BuildMode        = "purego"
)

func init() {
	sqlx.BindDriver(SQLiteDriverName, sqlx.QUESTION)
}
