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
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

// Overview handles GET /admin/overview
// Returns all candidates, voters, and elections in one payload.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	candidates, err := listCandidates(h.db, "")
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voters, err := h.listVoters()
	if err != nil {
		slog.Error("failed to query voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	elections, err := listElections(h.db)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminOverviewResponse{
		Candidates: candidates,
		Voters:     voters,
		Elections:  elections,
	})
}

func (h *AdminHandler) listVoters() ([]models.User, error) {
	rows, err := h.db.Query(`
		SELECT id, name, email, username, role, id_number, created_at
		FROM users
		WHERE role = $1
		ORDER BY created_at, id
	`, models.RoleVoter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	voters := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.Role, &u.IDNumber, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = models.RoleVoter
		voters = append(voters, u)
	}
	return voters, rows.Err()
}

// AddCandidate handles POST /admin/candidates
func (h *AdminHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Category == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category is required")
		return
	}

	var photo *string
	if req.Photo != "" {
		photo = &req.Photo
	}

	candidateID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO candidates (id, name, category, photo)
		VALUES ($1, $2, $3, $4)
	`, candidateID, req.Name, req.Category, photo)

	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	slog.Info("candidate added", "candidate_id", candidateID, "category", req.Category)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidateID,
	})
}

// AddVoter handles POST /admin/voters
// Like Signup, but performed by an admin; an omitted password falls back
// to the configured default.
func (h *AdminHandler) AddVoter(w http.ResponseWriter, r *http.Request) {
	var req models.AddVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.IDNumber = strings.TrimSpace(req.IDNumber)

	if req.Name == "" || req.Email == "" || req.Username == "" || req.IDNumber == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name, email, username and id_number are required")
		return
	}

	password := req.Password
	if password == "" {
		password = h.cfg.DefaultVoterPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add voter")
		return
	}

	userID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO users (id, name, email, username, password, role, id_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, userID, req.Name, req.Email, req.Username, hash, models.RoleVoter, req.IDNumber, time.Now().UTC())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Email or username already exists")
			return
		}
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add voter")
		return
	}

	slog.Info("voter added", "user_id", userID, "username", req.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.AddVoterResponse{
		UserID: userID,
	})
}

// ScheduleElection handles POST /admin/elections
// Times are RFC 3339 and stored in UTC. The end must be after the start.
func (h *AdminHandler) ScheduleElection(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category is required")
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "start_time must be RFC 3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "end_time must be RFC 3339")
		return
	}

	start = start.UTC()
	end = end.UTC()

	if !end.After(start) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "end_time must be after start_time")
		return
	}

	electionID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO elections (id, category, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, electionID, req.Category, start, end, time.Now().UTC())

	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to schedule election")
		return
	}

	slog.Info("election scheduled", "election_id", electionID, "category", req.Category,
		"start", start, "end", end)

	middleware.JSONResponse(w, http.StatusCreated, models.ScheduleElectionResponse{
		ElectionID: electionID,
		StartTime:  start,
		EndTime:    end,
	})
}
