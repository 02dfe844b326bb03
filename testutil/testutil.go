// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
)

// SetupTestDB creates a fresh SQLite database under t.TempDir with the full
// schema. Each test gets its own file, so tests are hermetic and parallel-safe.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		path,
	)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                 8080,
		DatabasePath:         "test.db",
		DatabaseType:         "sqlite",
		SessionTTL:           time.Hour,
		AdminUsername:        "admin",
		AdminPassword:        "admin123",
		DefaultVoterPassword: "voter123",
		IPHashSalt:           "test-ip-salt",
		LogLevel:             "info",
	}
}

// CreateTestUser inserts a user with the given role and returns its ID.
// The password is stored bcrypt-hashed so login flows work against it.
func CreateTestUser(t *testing.T, conn *sql.DB, role, username, password string) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	userID := uuid.NewString()
	_, err = conn.Exec(`
		INSERT INTO users (id, name, email, username, password, role, id_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, userID, "Test "+username, username+"@example.com", username, hash, role, "ID-"+username, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestSession inserts a valid session for a user and returns the token.
func CreateTestSession(t *testing.T, conn *sql.DB, userID string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}

	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, token, userID, now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return token
}

// CreateTestCandidate inserts a candidate and returns its ID.
func CreateTestCandidate(t *testing.T, conn *sql.DB, name, category string) string {
	t.Helper()

	candidateID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidates (id, name, category)
		VALUES ($1, $2, $3)
	`, candidateID, name, category)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// CreateTestElection inserts an election with the given window and returns
// its ID. Use a window around time.Now for an active election.
func CreateTestElection(t *testing.T, conn *sql.DB, category string, start, end time.Time) string {
	t.Helper()

	electionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO elections (id, category, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, electionID, category, start.UTC(), end.UTC(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID
}

// CastTestVote inserts a vote directly and returns its ID.
func CastTestVote(t *testing.T, conn *sql.DB, voterID, candidateID, electionID string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO votes (id, voter_id, candidate_id, election_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, voterID, candidateID, electionID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
