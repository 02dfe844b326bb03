// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
)

// Bootstrap prepares a freshly opened database for serving: it creates the
// schema if missing and seeds the default admin account when no admin
// exists yet.
//
// For sqlite the whole sequence is wrapped in a file lock. The production
// process manager starts several worker processes against the same database
// file, and without the lock two workers can race through the "no admin yet"
// check and both insert one.
func Bootstrap(conn *sql.DB, cfg cliparse.Config) error {
	if cfg.DatabaseType == "sqlite" {
		lock := flock.New(cfg.DatabasePath + ".lock")
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("acquire bootstrap lock: %w", err)
		}
		defer lock.Unlock()
	}

	if err := CreateSchema(conn); err != nil {
		return err
	}

	return ensureAdmin(conn, cfg)
}

// ensureAdmin creates the default admin account if no admin exists.
func ensureAdmin(conn *sql.DB, cfg cliparse.Config) error {
	var count int
	err := conn.QueryRow(`SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&count)
	if err != nil {
		return fmt.Errorf("count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	adminID := uuid.NewString()
	_, err = conn.Exec(`
		INSERT INTO users (id, name, email, username, password, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, adminID, "Administrator", "admin@example.com", cfg.AdminUsername, hash, "admin", time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	slog.Info("created default admin", "username", cfg.AdminUsername, "user_id", adminID)
	return nil
}
