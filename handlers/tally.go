// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/danielhkuo/ballotbox/models"
)

// ComputeTally counts votes per candidate for an election and ranks the
// candidates. Every candidate in the election's category appears in the
// result, including those with zero votes. Returns the ranked tallies and
// the total number of votes counted.
func ComputeTally(db *sql.DB, electionID string) ([]models.CandidateTally, int, error) {
	rows, err := db.Query(`
		SELECT c.id, c.name, COUNT(v.id) AS votes
		FROM candidates c
		LEFT JOIN votes v ON c.id = v.candidate_id AND v.election_id = $1
		WHERE c.category = (SELECT category FROM elections WHERE id = $2)
		GROUP BY c.id, c.name
	`, electionID, electionID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	tallies := []models.CandidateTally{}
	total := 0
	for rows.Next() {
		var t models.CandidateTally
		if err := rows.Scan(&t.CandidateID, &t.Name, &t.Votes); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tally row: %w", err)
		}
		total += t.Votes
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	sort.Slice(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]

		// 1. More votes wins
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}

		// 2. Stable tie-breaking by candidate ID (ascending)
		return a.CandidateID < b.CandidateID
	})

	for i := range tallies {
		tallies[i].Rank = i + 1 // 1-indexed ranking
	}

	return tallies, total, nil
}

// loadSnapshot retrieves a finalized result snapshot and decodes its payload.
func loadSnapshot(db *sql.DB, snapshotID string) (models.ResultSnapshot, error) {
	var snapshot models.ResultSnapshot
	var payloadJSON []byte
	err := db.QueryRow(`
		SELECT id, election_id, computed_at, payload
		FROM result_snapshot
		WHERE id = $1
	`, snapshotID).Scan(&snapshot.ID, &snapshot.ElectionID, &snapshot.ComputedAt, &payloadJSON)
	if err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to query snapshot: %w", err)
	}

	var payload models.SnapshotPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to parse snapshot payload: %w", err)
	}

	snapshot.Tallies = payload.Tallies
	snapshot.TotalVotes = payload.TotalVotes
	return snapshot, nil
}
