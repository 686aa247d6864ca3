// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides typed repositories over the record store.

Handlers never touch SQL directly; they depend on the repository interfaces
bundled in Store:

  - UserRepo: accounts and competition flags
  - SongChoiceRepo: one choice per (user, round)
  - RatingRepo: one rating per (author, ratedUser, round)
  - StateRepo: the competition state singleton (GetLatest / Upsert)
  - SettingsRepo: the admin-managed settings singleton
  - SessionRepo: bearer-token sessions

Two implementations exist:

	st := store.NewPostgres(db)  // production
	st := store.NewMemory()      // tests and -t memory dev mode

# Singleton Semantics

StateRepo.GetLatest sorts by recency and takes the first record; absence is
nil, nil, not an error. Upsert creates the record lazily, merging the patch
over defaults (round 1, result_locked, not started). There is no optimistic
concurrency token: concurrent upserts are last-write-wins, matching the
behavior the admin UI was built against.

# Upsert Uniqueness

SongChoiceRepo and RatingRepo enforce their uniqueness invariants by
find-then-upsert rather than relying on constraint errors, so both
implementations behave identically.
*/
package store
