// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported DATABASE_TYPE values
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Open connects to the configured database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypePostgres:
		driver = "postgres"
	case TypeSQLite, "":
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// SQLite allows a single writer; keep one connection so writers
		// queue in the pool instead of failing with SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return conn, nil
}

// IsUniqueViolation reports whether err is a unique or primary-key
// constraint failure from either supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
