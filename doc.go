// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Ask API server.

Quickly Ask is a question-and-vote service: users ask yesNo or
multipleChoice questions, everyone else votes once, and live counters
back every tally. Premium users unlock multipleChoice questions and
sponsorship.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=quickly.db SESSION_SECRET=... PAYMENT_WEBHOOK_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string
  - SESSION_SECRET (-session-secret): session token key
  - PAYMENT_WEBHOOK_SECRET (-webhook-secret): webhook signature key

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - VOTE_RATE_PER_SEC, VOTE_RATE_BURST: vote rate limit

# Architecture

  - handlers: HTTP request handlers (questions, voting, premium, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, error mapping, rate limiting
  - questions: Question store
  - ledger: Vote ledger and counter aggregation
  - entitlement: Premium gate and upgrades
  - stats: Platform and user stats
  - auth: Session tokens and webhook signatures
  - apperr: Error kinds shared by every layer
  - metrics: Prometheus collectors
  - models: Request/response and domain types
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
