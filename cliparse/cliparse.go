package cliparse

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port         int           `env:"PORT, default=8080"`
	DatabasePath string        `env:"DATABASE_PATH, default=/tmp/voting.db"`
	DatabaseType string        `env:"DATABASE_TYPE, default=sqlite"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	SessionTTL   time.Duration `env:"SESSION_TTL, default=12h"`

	// Bootstrap accounts (first boot only)
	AdminUsername        string `env:"ADMIN_USERNAME, default=admin"`
	AdminPassword        string `env:"ADMIN_PASSWORD, default=admin123"`
	DefaultVoterPassword string `env:"DEFAULT_VOTER_PASSWORD, default=voter123"`

	// Secrets (prefer env variables, but allow CLI for dev)
	IPHashSalt string `env:"IP_HASH_SALT, default=dev-ip-salt"`

	LogLevel string `env:"LOG_LEVEL, default=info"`
}

// ParseFlags loads configuration from the environment and applies CLI
// flag overrides on top.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	fs := flag.NewFlagSet("ballotbox", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database file path")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Database URL (postgres only)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", cfg.IPHashSalt, "IP hash salt (prefer env)")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, errors.New("port must be between 1 and 65535")
	}

	switch cfg.DatabaseType {
	case "sqlite":
		if cfg.DatabasePath == "" {
			return Config{}, errors.New("database path required (use -d or DATABASE_PATH env)")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use --database-url or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unknown database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	return cfg, nil
}
