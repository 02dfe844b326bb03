// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// electionResults assembles the result payload for an election. Finalized
// elections are served from their immutable snapshot; everything else gets
// a live tally.
func (h *ResultsHandler) electionResults(election models.Election) (models.ElectionResults, error) {
	if election.SnapshotID != nil {
		snapshot, err := loadSnapshot(h.db, *election.SnapshotID)
		if err != nil {
			return models.ElectionResults{}, err
		}
		return models.ElectionResults{
			Election:   election,
			Tallies:    snapshot.Tallies,
			TotalVotes: snapshot.TotalVotes,
			Final:      true,
		}, nil
	}

	tallies, total, err := ComputeTally(h.db, election.ID)
	if err != nil {
		return models.ElectionResults{}, err
	}
	return models.ElectionResults{
		Election:   election,
		Tallies:    tallies,
		TotalVotes: total,
		Final:      false,
	}, nil
}

// GetResults handles GET /elections/{id}/results (admin)
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	election, err := getElection(h.db, electionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	results, err := h.electionResults(election)
	if err != nil {
		slog.Error("failed to compute results", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// DownloadCSV handles GET /elections/{id}/results.csv (admin)
// Streams "Candidate,Votes" rows for the election.
func (h *ResultsHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	election, err := getElection(h.db, electionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	results, err := h.electionResults(election)
	if err != nil {
		slog.Error("failed to compute results", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=results_election_%s.csv", electionID))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Candidate", "Votes"})
	for _, t := range results.Tallies {
		_ = cw.Write([]string{t.Name, strconv.Itoa(t.Votes)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to write CSV", "error", err, "election_id", electionID)
	}
}

// Standing handles GET /candidate/standing (candidate)
// Returns the caller's candidate record and the live tally for the current
// election's category - the candidate's own dashboard.
func (h *ResultsHandler) Standing(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Candidate accounts are matched to ballot entries by name.
	var candidate *models.Candidate
	var c models.Candidate
	err := h.db.QueryRow(`
		SELECT id, name, category, photo FROM candidates WHERE name = $1
	`, user.Name).Scan(&c.ID, &c.Name, &c.Category, &c.Photo)
	if err == nil {
		candidate = &c
	} else if err != sql.ErrNoRows {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	election, active, err := currentElection(h.db)
	if err != nil {
		slog.Error("failed to query current election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	response := models.CandidateStandingResponse{
		Candidate: candidate,
		Election:  nil,
		Results:   []models.CandidateTally{},
	}

	if active {
		tallies, _, err := ComputeTally(h.db, election.ID)
		if err != nil {
			slog.Error("failed to compute results", "error", err, "election_id", election.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
			return
		}
		response.Election = &election
		response.Results = tallies
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}
