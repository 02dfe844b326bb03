// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestCastVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(conn, cfg)

	now := time.Now().UTC()
	electionID := testutil.CreateTestElection(t, conn, "President", now.Add(-time.Hour), now.Add(time.Hour))
	candidateID := testutil.CreateTestCandidate(t, conn, "Grace Hopper", "President")
	offBallotID := testutil.CreateTestCandidate(t, conn, "Alan Turing", "Treasurer")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, userID string, resp *models.CastVoteResponse)
	}{
		{
			name:           "valid vote",
			requestBody:    models.CastVoteRequest{CandidateID: candidateID},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, userID string, resp *models.CastVoteResponse) {
				if resp.VoteID == "" {
					t.Error("Expected non-empty vote_id")
				}

				var storedCandidate, storedElection string
				var ipHash *string
				err := conn.QueryRow(`
					SELECT candidate_id, election_id, ip_hash FROM votes WHERE id = $1
				`, resp.VoteID).Scan(&storedCandidate, &storedElection, &ipHash)
				if err != nil {
					t.Fatalf("Failed to query vote: %v", err)
				}
				if storedCandidate != candidateID {
					t.Errorf("Vote recorded for %s, expected %s", storedCandidate, candidateID)
				}
				if storedElection != electionID {
					t.Errorf("Vote recorded in election %s, expected %s", storedElection, electionID)
				}
				// The raw client IP is never stored, only its keyed hash
				if ipHash == nil || *ipHash == "" {
					t.Error("Expected ip_hash to be recorded")
				}
			},
		},
		{
			name:           "missing candidate_id",
			requestBody:    models.CastVoteRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown candidate",
			requestBody:    models.CastVoteRequest{CandidateID: "no-such-candidate"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "candidate outside election category",
			requestBody:    models.CastVoteRequest{CandidateID: offBallotID},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A fresh voter per case so duplicate rejection never interferes
			username := "caster_" + string(rune('a'+i))
			req := testutil.MakeRequest("POST", "/elections/current/votes", tt.requestBody, nil)
			w, userID := voterRequest(t, conn, username, handler.CastVote, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.CastVoteResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, userID, &resp)
			}
		})
	}
}

func TestCastVoteNoActiveElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(conn, cfg)

	now := time.Now().UTC()
	// Election already ended
	testutil.CreateTestElection(t, conn, "President", now.Add(-2*time.Hour), now.Add(-time.Hour))
	candidateID := testutil.CreateTestCandidate(t, conn, "Grace Hopper", "President")

	req := testutil.MakeRequest("POST", "/elections/current/votes",
		models.CastVoteRequest{CandidateID: candidateID}, nil)
	w, _ := voterRequest(t, conn, "too_late", handler.CastVote, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestCastVoteDuplicate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(conn, cfg)

	now := time.Now().UTC()
	electionID := testutil.CreateTestElection(t, conn, "President", now.Add(-time.Hour), now.Add(time.Hour))
	candidateID := testutil.CreateTestCandidate(t, conn, "Grace Hopper", "President")
	otherID := testutil.CreateTestCandidate(t, conn, "Ada Lovelace", "President")

	userID := testutil.CreateTestUser(t, conn, models.RoleVoter, "one_vote_only", "pass123")
	token := testutil.CreateTestSession(t, conn, userID)
	testutil.CastTestVote(t, conn, userID, candidateID, electionID)

	// A second vote, even for a different candidate, is rejected
	req := testutil.MakeRequest("POST", "/elections/current/votes",
		models.CastVoteRequest{CandidateID: otherID}, map[string]string{
			middleware.SessionTokenHeader: token,
		})
	w := httptest.NewRecorder()
	middleware.NewAuthenticator(conn).RequireRole(models.RoleVoter, handler.CastVote)(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)

	var count int
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM votes WHERE voter_id = $1
	`, userID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 vote, got %d", count)
	}
}

// TestConcurrentDuplicateVotes verifies that simultaneous submissions from
// the same voter record exactly one vote. The UNIQUE (voter_id, election_id)
// constraint is what holds when the friendly pre-check races.
func TestConcurrentDuplicateVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(conn, cfg)

	now := time.Now().UTC()
	electionID := testutil.CreateTestElection(t, conn, "President", now.Add(-time.Hour), now.Add(time.Hour))
	candidateID := testutil.CreateTestCandidate(t, conn, "Grace Hopper", "President")

	userID := testutil.CreateTestUser(t, conn, models.RoleVoter, "racer", "pass123")
	token := testutil.CreateTestSession(t, conn, userID)
	authn := middleware.NewAuthenticator(conn)
	wrapped := authn.RequireRole(models.RoleVoter, handler.CastVote)

	numAttempts := 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/elections/current/votes",
				models.CastVoteRequest{CandidateID: candidateID}, map[string]string{
					middleware.SessionTokenHeader: token,
				})
			w := httptest.NewRecorder()

			wrapped(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", successCount.Load())
	}

	var voteCount int
	err := conn.QueryRow(`
		SELECT COUNT(*) FROM votes WHERE voter_id = $1 AND election_id = $2
	`, userID, electionID).Scan(&voteCount)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != 1 {
		t.Errorf("Expected exactly 1 vote in database, got %d", voteCount)
	}
}

// TestConcurrentDistinctVoters verifies that many different voters submitting
// at once all get their vote recorded.
func TestConcurrentDistinctVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(conn, cfg)

	now := time.Now().UTC()
	electionID := testutil.CreateTestElection(t, conn, "President", now.Add(-time.Hour), now.Add(time.Hour))
	candidateID := testutil.CreateTestCandidate(t, conn, "Grace Hopper", "President")

	numVoters := 10
	tokens := make([]string, numVoters)
	for i := 0; i < numVoters; i++ {
		userID := testutil.CreateTestUser(t, conn, models.RoleVoter, "crowd_"+string(rune('a'+i)), "pass123")
		tokens[i] = testutil.CreateTestSession(t, conn, userID)
	}

	authn := middleware.NewAuthenticator(conn)
	wrapped := authn.RequireRole(models.RoleVoter, handler.CastVote)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/elections/current/votes",
				models.CastVoteRequest{CandidateID: candidateID}, map[string]string{
					middleware.SessionTokenHeader: tokens[idx],
				})
			w := httptest.NewRecorder()

			wrapped(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	var voteCount int
	err := conn.QueryRow(`
		SELECT COUNT(*) FROM votes WHERE election_id = $1
	`, electionID).Scan(&voteCount)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != numVoters {
		t.Errorf("Expected %d votes in database, got %d", numVoters, voteCount)
	}
}
