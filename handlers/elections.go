// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// listElections returns all elections ordered by start time.
func listElections(db *sql.DB) ([]models.Election, error) {
	rows, err := db.Query(`
		SELECT id, category, start_time, end_time, finalized_at, snapshot_id, created_at
		FROM elections
		ORDER BY start_time, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Category, &e.StartTime, &e.EndTime,
			&e.FinalizedAt, &e.SnapshotID, &e.CreatedAt); err != nil {
			return nil, err
		}
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

// getElection loads one election by ID. Returns sql.ErrNoRows when absent.
func getElection(db *sql.DB, electionID string) (models.Election, error) {
	var e models.Election
	err := db.QueryRow(`
		SELECT id, category, start_time, end_time, finalized_at, snapshot_id, created_at
		FROM elections
		WHERE id = $1
	`, electionID).Scan(&e.ID, &e.Category, &e.StartTime, &e.EndTime,
		&e.FinalizedAt, &e.SnapshotID, &e.CreatedAt)
	return e, err
}

// currentElection returns the election whose voting window contains now.
// The window check happens in Go rather than SQL so timestamp comparison
// does not depend on the driver's storage format.
func currentElection(db *sql.DB) (models.Election, bool, error) {
	elections, err := listElections(db)
	if err != nil {
		return models.Election{}, false, err
	}

	now := time.Now().UTC()
	for _, e := range elections {
		if !e.StartTime.After(now) && !e.EndTime.Before(now) {
			return e, true, nil
		}
	}
	return models.Election{}, false, nil
}

// listCandidates returns candidates, optionally filtered by category.
func listCandidates(db *sql.DB, category string) ([]models.Candidate, error) {
	query := `SELECT id, name, category, photo FROM candidates ORDER BY category, name, id`
	args := []interface{}{}
	if category != "" {
		query = `SELECT id, name, category, photo FROM candidates WHERE category = $1 ORDER BY name, id`
		args = append(args, category)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.Photo); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// List handles GET /elections
func (h *ElectionHandler) List(w http.ResponseWriter, r *http.Request) {
	elections, err := listElections(h.db)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetCurrent handles GET /elections/current
// Returns the active election's ballot for the calling voter: the election,
// its category's candidates, and whether the voter has already voted.
// election is null in the response when nothing is active.
func (h *ElectionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	election, active, err := currentElection(h.db)
	if err != nil {
		slog.Error("failed to query current election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !active {
		middleware.JSONResponse(w, http.StatusOK, models.CurrentElectionResponse{
			Election:   nil,
			Candidates: []models.Candidate{},
			Voted:      false,
		})
		return
	}

	candidates, err := listCandidates(h.db, election.Category)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var voted bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM votes WHERE voter_id = $1 AND election_id = $2
		)
	`, user.ID, election.ID).Scan(&voted)
	if err != nil {
		slog.Error("failed to check vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CurrentElectionResponse{
		Election:   &election,
		Candidates: candidates,
		Voted:      voted,
	})
}
