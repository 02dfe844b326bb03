// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestSignup(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.SignupResponse)
	}{
		{
			name: "valid signup",
			requestBody: models.SignupRequest{
				Name:     "Alice Example",
				Email:    "alice@example.com",
				Username: "alice",
				Password: "hunter22",
				IDNumber: "STU-1001",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.SignupResponse) {
				if resp.UserID == "" {
					t.Error("Expected non-empty user_id")
				}

				// Self-registration always creates a voter
				var role string
				err := conn.QueryRow(`SELECT role FROM users WHERE id = $1`, resp.UserID).Scan(&role)
				if err != nil {
					t.Fatalf("Failed to query user: %v", err)
				}
				if role != models.RoleVoter {
					t.Errorf("Expected role voter, got %s", role)
				}

				// The password must be stored hashed, not in the clear
				var stored string
				err = conn.QueryRow(`SELECT password FROM users WHERE id = $1`, resp.UserID).Scan(&stored)
				if err != nil {
					t.Fatalf("Failed to query password: %v", err)
				}
				if stored == "hunter22" {
					t.Error("Password was stored in plaintext")
				}
			},
		},
		{
			name: "missing name",
			requestBody: models.SignupRequest{
				Email:    "bob@example.com",
				Username: "bob",
				Password: "hunter22",
				IDNumber: "STU-1002",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing email",
			requestBody: models.SignupRequest{
				Name:     "Bob Example",
				Username: "bob",
				Password: "hunter22",
				IDNumber: "STU-1002",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			requestBody: models.SignupRequest{
				Name:     "Bob Example",
				Email:    "bob@example.com",
				Username: "bob",
				IDNumber: "STU-1002",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing id_number",
			requestBody: models.SignupRequest{
				Name:     "Bob Example",
				Email:    "bob@example.com",
				Username: "bob",
				Password: "hunter22",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/signup", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Signup(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.SignupResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestSignupDuplicate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	testutil.CreateTestUser(t, conn, models.RoleVoter, "taken", "pass123")

	tests := []struct {
		name string
		body models.SignupRequest
	}{
		{
			name: "duplicate username",
			body: models.SignupRequest{
				Name:     "Someone Else",
				Email:    "fresh@example.com",
				Username: "taken",
				Password: "pass456",
				IDNumber: "STU-2001",
			},
		},
		{
			name: "duplicate email",
			body: models.SignupRequest{
				Name:     "Someone Else",
				Email:    "taken@example.com",
				Username: "fresh",
				Password: "pass456",
				IDNumber: "STU-2002",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/signup", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Signup(w, req)

			testutil.AssertStatus(t, w, http.StatusConflict)
		})
	}
}

func TestLogin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	userID := testutil.CreateTestUser(t, conn, models.RoleVoter, "carol", "correct-horse")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			requestBody:    models.LoginRequest{Username: "carol", Password: "correct-horse"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    models.LoginRequest{Username: "carol", Password: "wrong-horse"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown username",
			requestBody:    models.LoginRequest{Username: "nobody", Password: "correct-horse"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			requestBody:    models.LoginRequest{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/login", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.LoginResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.SessionToken == "" {
				t.Error("Expected non-empty session_token")
			}
			if resp.Role != models.RoleVoter {
				t.Errorf("Expected role voter, got %s", resp.Role)
			}
			if resp.ExpiresAt.Before(time.Now()) {
				t.Error("Expected expires_at in the future")
			}

			// The session must be persisted for this user
			var storedUserID string
			err := conn.QueryRow(`
				SELECT user_id FROM sessions WHERE token = $1
			`, resp.SessionToken).Scan(&storedUserID)
			if err != nil {
				t.Fatalf("Failed to query session: %v", err)
			}
			if storedUserID != userID {
				t.Errorf("Session belongs to %s, expected %s", storedUserID, userID)
			}
		})
	}
}

func TestLoginHonorsSessionTTL(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.SessionTTL = 15 * time.Minute
	handler := NewAccountHandler(conn, cfg)

	testutil.CreateTestUser(t, conn, models.RoleVoter, "dave", "pass123")

	req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
		Username: "dave",
		Password: "pass123",
	}, nil)
	w := httptest.NewRecorder()

	handler.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LoginResponse
	testutil.AssertJSON(t, w, &resp)

	ttl := time.Until(resp.ExpiresAt)
	if ttl > 15*time.Minute || ttl < 14*time.Minute {
		t.Errorf("Expected expiry about 15m out, got %v", ttl)
	}
}

func TestLogout(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	userID := testutil.CreateTestUser(t, conn, models.RoleVoter, "erin", "pass123")
	token := testutil.CreateTestSession(t, conn, userID)

	req := testutil.MakeRequest("POST", "/auth/logout", nil, map[string]string{
		middleware.SessionTokenHeader: token,
	})
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM sessions WHERE token = $1`, token).Scan(&count); err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if count != 0 {
		t.Error("Expected session to be deleted on logout")
	}
}
