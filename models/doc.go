// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignupRequest: name, email, username, password, id_number
  - LoginRequest: username, password
  - AddCandidateRequest: name, category, photo
  - AddVoterRequest: name, email, username, password, id_number
  - ScheduleElectionRequest: category, start_time, end_time (RFC 3339)
  - CastVoteRequest: candidate_id

# Response Types

Types for JSON responses:

  - SignupResponse: user_id, message
  - LoginResponse: session_token, role, name, expires_at
  - ScheduleElectionResponse: election_id, start_time, end_time
  - CastVoteResponse: vote_id, message
  - CurrentElectionResponse: election, candidates, voted
  - AdminOverviewResponse: candidates, voters, elections
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: account with role and bcrypt password hash
  - Session: server-side bearer session with expiry
  - Candidate: ballot entry with category
  - Election: category plus UTC voting window and finalization state
  - Vote: one recorded vote (voter, candidate, election)
  - CandidateTally: per-candidate vote count with rank
  - ResultSnapshot: immutable tally for a finalized election

# Constants

Roles:

	RoleAdmin     = "admin"
	RoleVoter     = "voter"
	RoleCandidate = "candidate"
*/
package models
