// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential hashing and session token generation.

# Passwords

Passwords are hashed with bcrypt before storage:

	hash, err := auth.HashPassword("secret")
	err = auth.CheckPassword(hash, "secret") // nil on match

CheckPassword returns ErrInvalidCredentials on mismatch so handlers can map
it to 401 without leaking whether the username or the password was wrong.

# Session Tokens

GenerateSessionToken creates a 192-bit random URL-safe token:

	token, err := auth.GenerateSessionToken()

Tokens are opaque: all meaning lives in the sessions table (user, expiry).

# IP Hashing

HashIP produces a salted one-way hash of a client IP for vote audit records:

	hash := auth.HashIP("203.0.113.7", cfg.IPHashSalt)

Only the first 64 bits are kept — enough for deduplication, useless for
recovering the address.
*/
package auth
