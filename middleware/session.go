// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotbox/models"
)

// SessionTokenHeader carries the opaque bearer token issued at login.
const SessionTokenHeader = "X-Session-Token"

type contextKey int

const userKey contextKey = iota

// Authenticator resolves session tokens against the sessions table and
// enforces role requirements on wrapped handlers.
type Authenticator struct {
	db *sql.DB
}

func NewAuthenticator(db *sql.DB) *Authenticator {
	return &Authenticator{db: db}
}

// RequireRole wraps a handler so it only runs for an authenticated caller
// holding the given role. An empty role admits any authenticated user.
// The resolved user is placed in the request context; retrieve it with
// UserFrom.
func (a *Authenticator) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(SessionTokenHeader)
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, SessionTokenHeader+" header required")
			return
		}

		var user models.User
		var expiresAt time.Time
		err := a.db.QueryRow(`
			SELECT u.id, u.name, u.email, u.username, u.role, u.created_at, s.expires_at
			FROM sessions s
			JOIN users u ON u.id = s.user_id
			WHERE s.token = $1
		`, token).Scan(&user.ID, &user.Name, &user.Email, &user.Username, &user.Role, &user.CreatedAt, &expiresAt)

		if err == sql.ErrNoRows {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid session token")
			return
		}
		if err != nil {
			slog.Error("failed to resolve session", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		if time.Now().After(expiresAt) {
			// Expired sessions are removed lazily on first use after expiry.
			if _, err := a.db.Exec(`DELETE FROM sessions WHERE token = $1`, token); err != nil {
				slog.Warn("failed to delete expired session", "error", err)
			}
			ErrorResponse(w, http.StatusUnauthorized, "Session expired")
			return
		}

		if role != "" && user.Role != role {
			ErrorResponse(w, http.StatusForbidden, "Insufficient role")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// UserFrom returns the authenticated user stored by RequireRole.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
