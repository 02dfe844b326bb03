// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"

	// Register the PostgreSQL driver for deployments that outgrow the file store.
	_ "github.com/lib/pq"

	"github.com/danielhkuo/ballotbox/cliparse"
)

// Open connects to the configured database. For sqlite the parent directory
// is created if missing, so a fresh deployment with an empty volume boots
// into a working store.
//
// The sqlite DSN enables WAL mode with a generous busy timeout: the
// documented deployment runs multiple OS processes against the same file,
// and WAL plus busy_timeout is what keeps concurrent writers from surfacing
// SQLITE_BUSY to handlers.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	if cfg.DatabaseType == "postgres" {
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return conn, nil
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		cfg.DatabasePath,
	)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.DatabasePath, err)
	}
	return conn, nil
}
