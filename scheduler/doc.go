// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler finalizes ended elections on a fixed cadence.

A Finalizer runs a pass on boot and then every minute via robfig/cron. Each
pass finds elections whose end time has passed and which have no snapshot,
computes their tally, and writes a result_snapshot row in the same
transaction that marks the election finalized:

	fin := scheduler.New(db)
	if err := fin.Start(); err != nil {
		log.Fatal(err)
	}
	defer func() { <-fin.Stop().Done() }()

The finalized_at IS NULL guard in the UPDATE makes the pass safe to run
concurrently from multiple worker processes: only one wins, the rest roll
back their snapshot.
*/
package scheduler
