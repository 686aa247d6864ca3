// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Vocal Royale API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - AdminHandler: competition state and the seven admin actions
  - RatingHandler: rating submission and the rating-screen state view
  - ResultsHandler: per-round standings and finale rankings
  - SongHandler: song choices and check-in
  - SettingsHandler: the admin settings singleton
  - SessionHandler: register, login, logout, me

Handlers are created via constructor functions that accept *store.Store and
Config; AdminHandler additionally takes an Rng so tests can pin the random
participant pick:

	adminHandler := handlers.NewAdminHandler(st, cfg, rng)

# Competition Lifecycle

The admin drives each round through POST /admin/api {"action": ...}:

	start_competition     → singing_phase (all checked in, all songs confirmed)
	activate_rating_phase → rating_phase (marks the performer as sung)
	next_participant      → singing_phase, or break when everyone sang
	finalize_ratings      → result_locked
	show_results          → result_phase (eliminates the bottom N)
	start_next_round      → singing_phase of round+1
	reset_game            → back to round 1, flags cleared, ratings deleted

Precondition failures return 400 with a stable error code such as
missing_checkins, missing_ratings or no_next_round; missing_ratings carries
missingCount and expectedCount diagnostics.

# Scoring

The aggregation in scoring.go is pure. Juror ratings weigh double:

	rows := handlers.ComputeRoundResults(participants, ratings, roles)

Round rows sort best-first; EliminationOrder re-sorts worst-first for cutting
the bottom N per the settings pattern (never the whole field, never anyone in
the finale). ComputeFinalRankings aggregates every round and ranks survivors
above the eliminated via a totalRounds+1 sentinel round.

# Rating Flow

Voters submit via POST /rating/api while the round is in rating_phase (or
rating_refinement). Self-ratings are rejected in every phase; re-submitting
updates the existing row instead of creating a second one.
*/
package handlers
