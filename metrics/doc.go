// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics defines the Prometheus collectors exposed at /metrics.

All collectors are package-level promauto variables, registered against the
default registry at init time. Handlers and the scheduler increment them
directly:

	metrics.VotesRecorded.Inc()
	metrics.Logins.WithLabelValues("success").Inc()

The /metrics endpoint is wired in the router via promhttp.Handler().
*/
package metrics
