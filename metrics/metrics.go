// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ballotbox_http_requests_total",
		Help: "Total number of HTTP requests, partitioned by method and status code.",
	}, []string{"method", "status"})

	HTTPRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ballotbox_http_request_duration_seconds",
		Help:    "Duration of HTTP request handling.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	// Voting metrics
	VotesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ballotbox_votes_recorded_total",
		Help: "Total number of votes accepted and stored.",
	})

	VotesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ballotbox_votes_rejected_total",
		Help: "Number of vote submissions rejected, partitioned by reason.",
	}, []string{"reason"})

	// Account metrics
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ballotbox_logins_total",
		Help: "Login attempts, partitioned by outcome.",
	}, []string{"outcome"})

	// Scheduler metrics
	ElectionsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ballotbox_elections_finalized_total",
		Help: "Number of elections finalized into result snapshots.",
	})

	FinalizeRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ballotbox_finalize_run_duration_seconds",
		Help:    "Duration of each scheduled finalization pass.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	})
)
