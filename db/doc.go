// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects the driver from DATABASE_TYPE and pings the server:

	conn, err := db.Open(db.TypePostgres, "postgres://...")

Supported types are "postgres" (github.com/lib/pq) and "sqlite"
(modernc.org/sqlite). SQLite connections are capped at one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: identity, premium flag, premium_since, plan, role
  - question: text, category, status, type, yes_count, no_count
  - question_option: options of multiple-choice questions with vote_count
  - vote: the vote ledger, UNIQUE (voter_id, question_id)

# Relationships

	users 1──* question (author)
	users 1──* vote (voter)
	question 1──* question_option
	question 1──* vote

Options and votes are deleted with their question. Counter columns carry
CHECK (>= 0) constraints.

# Constraint Errors

IsUniqueViolation recognises duplicate-key failures from both drivers so
callers can turn a lost insert race into a domain conflict.
*/
package db
