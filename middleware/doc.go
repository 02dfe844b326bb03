// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Logging and Metrics

WithLogging wraps a handler with structured request logging (log/slog) and
increments the Prometheus request counter and duration histogram:

	mux.HandleFunc("POST /votes", middleware.WithLogging(handler.CastVote))

# Authentication

Authenticator resolves the X-Session-Token header into a user and enforces
roles:

	authn := middleware.NewAuthenticator(db)
	mux.HandleFunc("POST /admin/candidates",
		middleware.WithLogging(authn.RequireRole(models.RoleAdmin, h.AddCandidate)))

Inside a wrapped handler the user is available from the request context:

	user, ok := middleware.UserFrom(r.Context())

Expired sessions are deleted lazily when presented.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
	middleware.ParseJSONBody(r, &req)

Errors use a fixed envelope: {"error": "...", "message": "..."}.

# CORS

CORS allows cross-origin requests and answers preflight OPTIONS.

# Client IP

GetClientIP checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
