// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Ask API.

# Handler Types

Each handler is a struct built from the database and config:

  - QuestionHandler: create, list, read, status changes, sponsorship, audit
  - VotingHandler: casting votes and reading the caller's vote
  - PremiumHandler: /me, upgrades, entitlement checks, payment webhook
  - StatsHandler: platform and per-user stats

Handlers are created via constructor functions that accept *sql.DB and Config:

	votingHandler := handlers.NewVotingHandler(db, cfg)

Handlers stay thin: parse the request, resolve the caller, call one
service operation, and map its error with middleware.WriteError.

# Identity

The caller is resolved from a session token (Authorization: Bearer or the
"session" cookie). Anonymous callers get 401 on any route that acts on
behalf of a user. Question reads and stats are public.

# Voting

	POST /questions/{id}/votes  {"answer":"yes"} or {"option_id":"..."}

Exactly one of answer or option_id must be set. Each user votes once per
question; a second attempt returns 409 and changes nothing. The response
carries the updated tally read inside the same transaction.

# Payment Webhook

	POST /webhooks/payment
	X-Signature: hex(HMAC-SHA256(body, PAYMENT_WEBHOOK_SECRET))

Successful payments upgrade the user. Failed payments and redeliveries
are acknowledged with 200 and upgraded=false so the sender stops retrying.
*/
package handlers
