// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: username, password, role, artist_name
  - LoginRequest: username, password
  - AdminActionRequest: action
  - SubmitRatingRequest: round, ratedUser, rating, comment
  - SongChoiceRequest: round, artist, songTitle, confirmed

# Response Types

Types for JSON responses:

  - LoginResponse: token, user
  - AdminStateResponse: state, activeParticipant
  - ActionResponse: ok, state, activeParticipant, eliminated, winner
  - RatingStateResponse: competitionStarted, roundState, round, ...
  - ResultsStateResponse: results, winner, finalRankings, totalRounds, ...
  - SubmitRatingResponse: ok, id
  - MissingRatingsResponse: error, missingCount, expectedCount
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: account with competition flags (checked_in, eliminated, sang_this_round)
  - CompetitionState: the state singleton (round, roundState, activeParticipant)
  - SongChoice: one song per (user, round)
  - Rating: one rating per (author, ratedUser, round)
  - Settings: admin-managed singleton (totalRounds, elimination pattern, caps)
  - ResultRow / FinalRanking: scoring output

# Round States

The competition moves through round states:

	singing_phase → rating_phase → (break | result_locked) → result_phase

plus publish_result and rating_refinement, which the admin can pass through
when re-opening ratings. statemachine.go holds the per-action allowed-state
table; ActionAllowed rejects an action/state combination before any handler
mutates anything.

# Error Codes

4xx responses carry a stable machine-readable code in the "error" field,
e.g. missing_ratings, missing_checkins, rating_closed, self_rating_not_allowed.
See the Err... constants.
*/
package models
