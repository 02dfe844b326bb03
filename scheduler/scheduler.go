// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/models"
)

// Finalizer periodically turns ended elections into immutable result
// snapshots. Once a snapshot exists, result reads for that election never
// touch the votes table again.
type Finalizer struct {
	db   *sql.DB
	cron *cron.Cron
}

func New(db *sql.DB) *Finalizer {
	return &Finalizer{
		db:   db,
		cron: cron.New(),
	}
}

// Start runs one immediate pass (elections may have ended while the
// process was down) and then schedules a pass every minute.
func (f *Finalizer) Start() error {
	if err := f.RunOnce(); err != nil {
		slog.Warn("initial finalization pass failed", "error", err)
	}

	_, err := f.cron.AddFunc("@every 1m", func() {
		if err := f.RunOnce(); err != nil {
			slog.Error("finalization pass failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule finalization job: %w", err)
	}

	f.cron.Start()
	return nil
}

// Stop halts the schedule and returns a context that is done once any
// in-flight pass has finished.
func (f *Finalizer) Stop() context.Context {
	return f.cron.Stop()
}

// RunOnce finalizes every election whose window has closed and which has
// no snapshot yet.
func (f *Finalizer) RunOnce() error {
	start := time.Now()
	defer func() {
		metrics.FinalizeRunDuration.Observe(time.Since(start).Seconds())
	}()

	rows, err := f.db.Query(`
		SELECT id, end_time FROM elections WHERE finalized_at IS NULL
	`)
	if err != nil {
		return fmt.Errorf("query unfinalized elections: %w", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	var ended []string
	for rows.Next() {
		var id string
		var endTime time.Time
		if err := rows.Scan(&id, &endTime); err != nil {
			return fmt.Errorf("scan election row: %w", err)
		}
		if endTime.Before(now) {
			ended = append(ended, id)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, electionID := range ended {
		if err := f.finalize(electionID); err != nil {
			// Keep going: one broken election must not block the rest.
			slog.Error("failed to finalize election", "error", err, "election_id", electionID)
			continue
		}
		metrics.ElectionsFinalized.Inc()
	}

	return nil
}

// finalize computes the tally for one ended election and stores it as a
// snapshot in the same transaction that marks the election finalized.
func (f *Finalizer) finalize(electionID string) error {
	tallies, total, err := handlers.ComputeTally(f.db, electionID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(models.SnapshotPayload{
		Tallies:    tallies,
		TotalVotes: total,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot payload: %w", err)
	}

	snapshotID := uuid.NewString()
	computedAt := time.Now().UTC()

	tx, err := f.db.Begin()
	if err != nil {
		return fmt.Errorf("begin finalize transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO result_snapshot (id, election_id, computed_at, payload)
		VALUES ($1, $2, $3, $4)
	`, snapshotID, electionID, computedAt, string(payload))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	// Guard on finalized_at IS NULL so a concurrent pass in another worker
	// process cannot attach a second snapshot.
	res, err := tx.Exec(`
		UPDATE elections
		SET finalized_at = $1, snapshot_id = $2
		WHERE id = $3 AND finalized_at IS NULL
	`, computedAt, snapshotID, electionID)
	if err != nil {
		return fmt.Errorf("mark election finalized: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Another worker won; drop our snapshot by rolling back.
		return nil
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finalize transaction: %w", err)
	}

	slog.Info("election finalized", "election_id", electionID,
		"snapshot_id", snapshotID, "total_votes", total)
	return nil
}
