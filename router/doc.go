// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Ask API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Operational:

	GET /health
	GET /metrics                   - Prometheus text format

Questions (reads are public, writes need a session):

	POST /questions                - Create question
	GET  /questions                - List active questions
	GET  /questions/{id}           - Question with live tally
	POST /questions/{id}/status    - Close, remove or reopen
	POST /questions/{id}/sponsor   - Sponsor (premium)
	GET  /questions/{id}/audit     - Counter vs ledger audit (owner)

Voting (session required):

	POST /questions/{id}/votes     - Cast vote, rate limited per user
	GET  /questions/{id}/my-vote   - The caller's vote

Entitlements:

	GET  /me
	POST /premium/upgrade
	GET  /premium/can-sponsor
	POST /webhooks/payment         - Signed with X-Signature

Stats (public):

	GET /stats/platform
	GET /users/{id}/stats

Sessions are HS256 JWTs sent as "Authorization: Bearer <token>" or in the
"session" cookie. Authenticated routes answer 401 without one.
*/
package router
