// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all HTTP routes for the Ballot Box API.

NewRouter wires handlers onto a stdlib ServeMux using Go 1.22+ method and
pattern routing:

	mux := router.NewRouter(db, cfg)

Public routes: /health, /metrics, /auth/signup, /auth/login, /elections,
and the root banner. Everything else goes through
middleware.Authenticator.RequireRole with the role each route demands:

	admin:     /admin/*, /elections/{id}/results, /elections/{id}/results.csv
	voter:     /elections/current, /elections/current/votes
	candidate: /candidate/standing
	any:       /auth/logout

All routed handlers are wrapped in middleware.WithLogging, which also feeds
the Prometheus request metrics exposed at /metrics.
*/
package router
