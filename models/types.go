// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// User role constants
const (
	RoleAdmin     = "admin"
	RoleVoter     = "voter"
	RoleCandidate = "candidate"
)

// Request types

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	IDNumber string `json:"id_number"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddCandidateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Photo    string `json:"photo,omitempty"`
}

type AddVoterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"` // falls back to the configured default
	IDNumber string `json:"id_number"`
}

type ScheduleElectionRequest struct {
	Category  string `json:"category"`
	StartTime string `json:"start_time"` // RFC 3339
	EndTime   string `json:"end_time"`   // RFC 3339
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type SignupResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type AddVoterResponse struct {
	UserID string `json:"user_id"`
}

type ScheduleElectionResponse struct {
	ElectionID string    `json:"election_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

type CastVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Message string `json:"message"`
}

type CurrentElectionResponse struct {
	Election   *Election   `json:"election"` // nil when no election is active
	Candidates []Candidate `json:"candidates"`
	Voted      bool        `json:"voted"`
}

type AdminOverviewResponse struct {
	Candidates []Candidate `json:"candidates"`
	Voters     []User      `json:"voters"`
	Elections  []Election  `json:"elections"`
}

type CandidateStandingResponse struct {
	Candidate *Candidate       `json:"candidate"` // nil when no candidate record matches
	Election  *Election        `json:"election"`  // nil when no election is active
	Results   []CandidateTally `json:"results"`
}

// Domain types

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash, never exposed
	Role      string    `json:"role"`
	IDNumber  *string   `json:"id_number,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	Token     string    `json:"-"` // opaque bearer credential, never echoed back
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Candidate struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Photo    *string `json:"photo,omitempty"`
}

type Election struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	SnapshotID  *string    `json:"snapshot_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voter_id"`
	CandidateID string    `json:"candidate_id"`
	ElectionID  string    `json:"election_id"`
	CastAt      time.Time `json:"cast_at"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
}

// CandidateTally is one row of an election result: a candidate and the
// number of votes recorded for them, ranked by count.
type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
	Rank        int    `json:"rank"` // 1-indexed ranking
}

type ElectionResults struct {
	Election   Election         `json:"election"`
	Tallies    []CandidateTally `json:"tallies"`
	TotalVotes int              `json:"total_votes"`
	Final      bool             `json:"final"` // true when served from a finalized snapshot
}

type ResultSnapshot struct {
	ID         string           `json:"id"`
	ElectionID string           `json:"election_id"`
	ComputedAt time.Time        `json:"computed_at"`
	Tallies    []CandidateTally `json:"tallies"`
	TotalVotes int              `json:"total_votes"`
}

// SnapshotPayload is the JSON stored in the result_snapshot payload column.
type SnapshotPayload struct {
	Tallies    []CandidateTally `json:"tallies"`
	TotalVotes int              `json:"total_votes"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
