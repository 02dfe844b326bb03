// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration loading and command-line overrides.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values come from the environment first (via go-envconfig struct tags),
then CLI flags override anything they set.

# Config Fields

  - Port: Server listen port (default: 8080)
  - DatabasePath: SQLite database file path (default: /tmp/voting.db)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - DatabaseURL: PostgreSQL connection string (required for postgres)
  - SessionTTL: Session lifetime (default: 12h)
  - AdminUsername, AdminPassword: First-boot admin account
  - DefaultVoterPassword: Applied when an admin adds a voter without one
  - IPHashSalt: Secret for vote audit IP hashing
  - LogLevel: debug, info, warn, or error (default: info)

# CLI Flags

	-p             Server port
	-d             SQLite database file path
	-t             Database type (sqlite or postgres)
	--database-url Database URL (postgres only)
	--ip-salt      IP hash salt
	--log-level    Log level

# Environment Variables

	PORT                   → -p
	DATABASE_PATH          → -d
	DATABASE_TYPE          → -t
	DATABASE_URL           → --database-url
	SESSION_TTL
	ADMIN_USERNAME
	ADMIN_PASSWORD
	DEFAULT_VOTER_PASSWORD
	IP_HASH_SALT           → --ip-salt
	LOG_LEVEL              → --log-level

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - the port is outside 1-65535
  - DatabaseType is sqlite and DatabasePath is empty
  - DatabaseType is postgres and DatabaseURL is empty
  - DatabaseType is anything else
  - SessionTTL is not positive

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg)
	// ...
	mux := router.NewRouter(conn, cfg)
*/
package cliparse
