// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type AccountHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{db: db, cfg: cfg}
}

// isUniqueViolation reports whether err is a uniqueness constraint failure
// from either supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}

// Signup handles POST /auth/signup
// Self-registration always creates a voter; admin and candidate accounts
// are provisioned by an admin.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password is required")
		return
	}
	if req.IDNumber == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id_number is required for voter registration")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	userID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO users (id, name, email, username, password, role, id_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, userID, req.Name, req.Email, req.Username, hash, models.RoleVoter, req.IDNumber, time.Now().UTC())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Username or email already exists")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("voter signed up", "user_id", userID, "username", req.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.SignupResponse{
		UserID:  userID,
		Message: "Account created. You may login.",
	})
}

// Login handles POST /auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	var userID, name, role, hash string
	err := h.db.QueryRow(`
		SELECT id, name, role, password FROM users WHERE username = $1
	`, req.Username).Scan(&userID, &name, &role, &hash)

	if err == sql.ErrNoRows {
		metrics.Logins.WithLabelValues("failure").Inc()
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	now := time.Now().UTC()
	expiresAt := now.Add(h.cfg.SessionTTL)
	_, err = h.db.Exec(`
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, token, userID, now, expiresAt)

	if err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	metrics.Logins.WithLabelValues("success").Inc()
	slog.Info("user logged in", "user_id", userID, "role", role)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		SessionToken: token,
		Role:         role,
		Name:         name,
		ExpiresAt:    expiresAt,
	})
}

// Logout handles POST /auth/logout
// Revokes the presented session. Wrapped by RequireRole("") so only a valid
// session can be revoked.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.SessionTokenHeader)

	if _, err := h.db.Exec(`DELETE FROM sessions WHERE token = $1`, token); err != nil {
		slog.Error("failed to delete session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
