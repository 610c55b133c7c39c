//go:build sqlite_cgo

package database

// cgo SQLite:
//
//	CGO_ENABLED=1 go build -tags sqlite_cgo ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	SQLiteDriverName = "sqlite3"
	BuildMode        = "cgo"
)
