// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

The schema is created idempotently at startup:

	if err := db.CreateSchema(dbConn); err != nil {
		// handle error
	}

# Tables

  - users: accounts with competition flags; the nullable round column
    records the round a participant was eliminated in
  - sessions: bearer tokens
  - song_choices: UNIQUE (user_id, round)
  - ratings: UNIQUE (author_id, rated_user_id, round), rating CHECK 1..5
  - competition_state: the state singleton, read newest-first
  - settings: the admin-managed singleton; the elimination pattern is
    stored as a JSON array in TEXT
*/
package db
