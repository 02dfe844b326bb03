// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	authn := middleware.NewAuthenticator(db)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Accounts (public except logout)
	mux.HandleFunc("POST /auth/signup", middleware.WithLogging(accountHandler.Signup))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(authn.RequireRole("", accountHandler.Logout)))

	// Admin operations
	mux.HandleFunc("GET /admin/overview", middleware.WithLogging(authn.RequireRole(models.RoleAdmin, adminHandler.Overview)))
	mux.HandleFunc("POST /admin/candidates", middleware.WithLogging(authn.RequireRole(models.RoleAdmin, adminHandler.AddCandidate)))
	mux.HandleFunc("POST /admin/voters", middleware.WithLogging(authn.RequireRole(models.RoleAdmin, adminHandler.AddVoter)))
	mux.HandleFunc("POST /admin/elections", middleware.WithLogging(authn.RequireRole(models.RoleAdmin, adminHandler.ScheduleElection)))

	// Elections and voting
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.List))
	mux.HandleFunc("GET /elections/current", middleware.WithLogging(authn.RequireRole(models.RoleVoter, electionHandler.GetCurrent)))
	mux.HandleFunc("POST /elections/current/votes", middleware.WithLogging(authn.RequireRole(models.RoleVoter, voteHandler.CastVote)))

	// Results
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(authn.RequireRole(models.RoleAdmin, resultsHandler.GetResults)))
	mux.HandleFunc("GET /elections/{id}/results.csv", middleware.WithLogging(authn.RequireRole(models.RoleAdmin, resultsHandler.DownloadCSV)))
	mux.HandleFunc("GET /candidate/standing", middleware.WithLogging(authn.RequireRole(models.RoleCandidate, resultsHandler.Standing)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
