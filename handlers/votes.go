// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg}
}

// CastVote handles POST /elections/current/votes
// Records one vote by the calling voter in the currently active election.
// The pre-check on an existing vote gives a clean 409 on the common path;
// the UNIQUE (voter_id, election_id) constraint is the backstop that holds
// when two submissions from the same voter race across worker processes.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	election, active, err := currentElection(h.db)
	if err != nil {
		slog.Error("failed to query current election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !active {
		metrics.VotesRejected.WithLabelValues("no_active_election").Inc()
		middleware.ErrorResponse(w, http.StatusConflict, "No active election right now")
		return
	}

	// The candidate must be on this election's ballot.
	var category string
	err = h.db.QueryRow(`
		SELECT category FROM candidates WHERE id = $1
	`, req.CandidateID).Scan(&category)

	if err == sql.ErrNoRows {
		metrics.VotesRejected.WithLabelValues("invalid_candidate").Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown candidate")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if category != election.Category {
		metrics.VotesRejected.WithLabelValues("invalid_candidate").Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate is not in this election's category")
		return
	}

	// Friendly-path duplicate check.
	var alreadyVoted bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM votes WHERE voter_id = $1 AND election_id = $2
		)
	`, user.ID, election.ID).Scan(&alreadyVoted)
	if err != nil {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if alreadyVoted {
		metrics.VotesRejected.WithLabelValues("duplicate").Inc()
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
		return
	}

	clientIP := middleware.GetClientIP(r)
	ipHash := auth.HashIP(clientIP, h.cfg.IPHashSalt)
	userAgent := r.UserAgent()

	voteID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO votes (id, voter_id, candidate_id, election_id, cast_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, voteID, user.ID, req.CandidateID, election.ID, time.Now().UTC(), ipHash, userAgent)

	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race to a concurrent duplicate.
			metrics.VotesRejected.WithLabelValues("duplicate").Inc()
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
			return
		}
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	metrics.VotesRecorded.Inc()
	slog.Info("vote recorded", "vote_id", voteID, "election_id", election.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:  voteID,
		Message: "Vote recorded. Thank you!",
	})
}
