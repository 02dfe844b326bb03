// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Ballot Box API server.

Ballot Box is an election voting service: admins schedule time-windowed
elections per candidate category, voters cast exactly one vote per election,
and results are tallied live and frozen into immutable snapshots once the
window closes. Votes are recorded in an embedded SQLite file by default.

# Starting the Server

The server runs with documented defaults out of the box:

	go run main.go

Or with overrides:

	PORT=9000 DATABASE_PATH=/data/voting.db go run main.go
	go run main.go -p 9000 -d /data/voting.db

On first boot the database file, schema, and a default admin account are
created automatically.

# Configuration

Optional settings (all have defaults):

  - PORT (-p): Server port (default: 8080)
  - DATABASE_PATH (-d): SQLite file path (default: /tmp/voting.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (--database-url): PostgreSQL connection string
  - SESSION_TTL: Session lifetime (default: 12h)
  - ADMIN_USERNAME / ADMIN_PASSWORD: First-boot admin account
  - IP_HASH_SALT (--ip-salt): Secret for vote audit IP hashing
  - LOG_LEVEL (--log-level): debug, info, warn, error

Durability note: votes survive restarts only if DATABASE_PATH sits on a
persistent volume. On an ephemeral filesystem the store is recreated empty
on every boot.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, admin, elections, votes, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Session auth, CORS, logging, metrics, JSON helpers
  - models: Request/response and domain types
  - auth: Password hashing and session token generation
  - db: Connection, schema creation, first-boot bootstrap
  - scheduler: Cron pass that finalizes ended elections
  - metrics: Prometheus collectors served at /metrics
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
