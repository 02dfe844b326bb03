// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection, schema creation, and first-boot setup.

# Opening

Open selects the driver from the config:

	conn, err := db.Open(cfg)

For sqlite (the default) the DSN enables WAL journaling, a 5s busy timeout,
and foreign keys, and the parent directory of the database file is created
if missing. For postgres the DATABASE_URL is used as-is.

# First Boot

Bootstrap makes a fresh (or existing) database serveable:

	if err := db.Bootstrap(conn, cfg); err != nil {
		log.Fatal(err)
	}

It creates the schema and seeds the default admin account when none exists.
Safe to call on every boot; on sqlite the sequence runs under a flock file
lock so concurrent worker processes cannot double-seed.

# Tables

  - users: accounts with role (admin/voter/candidate) and bcrypt hash
  - sessions: server-side bearer sessions with expiry
  - candidates: ballot entries grouped by category
  - elections: category plus UTC voting window and finalization state
  - votes: one row per recorded vote
  - result_snapshot: immutable tallies for finalized elections

# Relationships

	users 1──* sessions
	users 1──* votes
	candidates 1──* votes
	elections 1──* votes
	elections 1──* result_snapshot

All foreign keys use ON DELETE CASCADE.

# Invariants

	UNIQUE (voter_id, election_id) on votes

is the one-vote-per-voter-per-election guarantee. Handlers treat a
uniqueness violation on insert as "already voted" rather than pre-checking
alone, so the invariant holds even under concurrent duplicate submissions
from multiple worker processes.
*/
package db
