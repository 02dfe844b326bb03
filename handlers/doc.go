// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Ballot Box API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: Signup, login, logout
  - AdminHandler: Candidate/voter provisioning and election scheduling
  - ElectionHandler: Election listing and the voter's current ballot
  - VoteHandler: Vote recording
  - ResultsHandler: Tallies, CSV export, candidate standing

Handlers are created via constructor functions that accept *sql.DB and Config:

	voteHandler := handlers.NewVoteHandler(db, cfg)

# Account Flow

	POST /auth/signup → Signup (self-registration, always a voter)
	POST /auth/login  → Login (returns session_token)
	POST /auth/logout → Logout

Authenticated operations require the X-Session-Token header; role
enforcement is applied in the router via middleware.Authenticator.

# Election Lifecycle

An election is a category with a UTC voting window. It is "active" while
now is inside [start_time, end_time], and is finalized into an immutable
result snapshot by the scheduler after the window closes.

	POST /admin/elections        → ScheduleElection (admin)
	GET  /elections              → List
	GET  /elections/current      → GetCurrent (voter's ballot + voted flag)
	POST /elections/current/votes → CastVote (voter, one vote per election)

# Vote Recording

CastVote accepts exactly one vote per voter per election. A friendly
pre-check returns 409 on the common duplicate path; the UNIQUE
(voter_id, election_id) constraint catches concurrent duplicates across
worker processes sharing the SQLite file.

# Results

	GET /elections/{id}/results     → GetResults (admin; snapshot when final)
	GET /elections/{id}/results.csv → DownloadCSV (admin)
	GET /candidate/standing         → Standing (candidate's own dashboard)

The tally itself is implemented in tally.go:

	tallies, total, err := handlers.ComputeTally(db, electionID)

Every candidate in the election's category appears, zero-vote candidates
included, ranked by vote count with candidate ID as the stable tiebreak.
*/
package handlers
