// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first (godotenv) when
present; real environment variables win over it.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSecret: HS256 key for session tokens (required)
  - PaymentWebhookSecret: HMAC key for webhook signatures (required)
  - VoteRatePerSec, VoteRateBurst: vote rate limit (default: 5/s, burst 10)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-session-secret   Session secret
	-webhook-secret   Payment webhook secret
	-vote-rate        Votes per second per user
	-vote-burst       Vote burst per user

# Environment Variables

Flags fall back to environment variables:

	PORT                   → -p
	DATABASE_URL           → -d
	DATABASE_TYPE          → -t
	SESSION_SECRET         → -session-secret
	PAYMENT_WEBHOOK_SECRET → -webhook-secret
	VOTE_RATE_PER_SEC      → -vote-rate
	VOTE_RATE_BURST        → -vote-burst

CLI flags take precedence over environment variables.
*/
package cliparse
