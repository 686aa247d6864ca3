// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users (participants, jurors, spectators, admin)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    first_name TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL CHECK (role IN ('admin', 'participant', 'juror', 'spectator')),
    artist_name TEXT NOT NULL DEFAULT '',
    checked_in BOOLEAN NOT NULL DEFAULT FALSE,
    eliminated BOOLEAN NOT NULL DEFAULT FALSE,
    sang_this_round BOOLEAN NOT NULL DEFAULT FALSE,
    round INTEGER,
    password_hash TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

-- Sessions
CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);

-- Song choices, one per (user, round)
CREATE TABLE IF NOT EXISTS song_choices (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    round INTEGER NOT NULL,
    artist TEXT NOT NULL DEFAULT '',
    song_title TEXT NOT NULL DEFAULT '',
    confirmed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, round)
);

CREATE INDEX IF NOT EXISTS idx_song_choices_user_id ON song_choices(user_id);

-- Ratings, one per (author, rated user, round)
CREATE TABLE IF NOT EXISTS ratings (
    id TEXT PRIMARY KEY,
    author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    rated_user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    round INTEGER NOT NULL,
    rating INTEGER NOT NULL CHECK (rating >= 1 AND rating <= 5),
    comment TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (author_id, rated_user_id, round)
);

CREATE INDEX IF NOT EXISTS idx_ratings_round ON ratings(round);
CREATE INDEX IF NOT EXISTS idx_ratings_rated_user ON ratings(rated_user_id, round);

-- Competition state singleton
CREATE TABLE IF NOT EXISTS competition_state (
    id TEXT PRIMARY KEY,
    round INTEGER NOT NULL DEFAULT 1,
    round_state TEXT NOT NULL DEFAULT 'result_locked',
    competition_started BOOLEAN NOT NULL DEFAULT FALSE,
    competition_finished BOOLEAN NOT NULL DEFAULT FALSE,
    active_participant TEXT,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Settings singleton
CREATE TABLE IF NOT EXISTS settings (
    id TEXT PRIMARY KEY,
    total_rounds INTEGER NOT NULL DEFAULT 5,
    number_of_final_songs INTEGER NOT NULL DEFAULT 2,
    max_participant_count INTEGER NOT NULL DEFAULT 15,
    max_juror_count INTEGER NOT NULL DEFAULT 4,
    round_elimination_pattern TEXT NOT NULL DEFAULT '[5,3,3,2]',
    song_choice_deadline TIMESTAMP
);
`
