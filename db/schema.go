// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is portable between PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users (registration is external; this service reads and upgrades them)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    is_premium BOOLEAN NOT NULL DEFAULT FALSE,
    premium_since TIMESTAMP,
    premium_plan TEXT,
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member', 'premium', 'owner')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Questions with yes/no counters
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    author_id TEXT NOT NULL REFERENCES users(id),
    text TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT 'general',
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'closed', 'removed')),
    type TEXT NOT NULL CHECK (type IN ('yesNo', 'multipleChoice')),
    yes_count INTEGER NOT NULL DEFAULT 0 CHECK (yes_count >= 0),
    no_count INTEGER NOT NULL DEFAULT 0 CHECK (no_count >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_question_author_id ON question(author_id);
CREATE INDEX IF NOT EXISTS idx_question_status ON question(status, category);

-- Options for multiple-choice questions
CREATE TABLE IF NOT EXISTS question_option (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    position INTEGER NOT NULL,
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    UNIQUE (question_id, position)
);

CREATE INDEX IF NOT EXISTS idx_question_option_question_id ON question_option(question_id);

-- Vote ledger: one row per (voter, question)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES users(id),
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    answer TEXT NOT NULL CHECK (answer IN ('yes', 'no', 'option')),
    option_id TEXT REFERENCES question_option(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (voter_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_question_id ON vote(question_id, answer);
CREATE INDEX IF NOT EXISTS idx_vote_option_id ON vote(option_id);
`
