// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"

	"github.com/danielhkuo/vocal-royale/models"
)

// ErrNotFound is returned when a record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// UserRepo owns user accounts and their competition flags.
type UserRepo interface {
	Create(u *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	ListByRole(roles ...string) ([]models.User, error)
	CountByRole(role string) (int, error)
	Update(id string, patch models.UserPatch) error
	// ResetSangThisRound clears sang_this_round for every user.
	ResetSangThisRound() error
	// ResetCompetitionFlags clears eliminated, sang_this_round and the
	// elimination round for every user.
	ResetCompetitionFlags() error
}

// SongChoiceRepo owns song choices, unique per (user, round).
type SongChoiceRepo interface {
	// GetByUserAndRound returns nil, nil when the user has no choice for
	// the round.
	GetByUserAndRound(userID string, round int) (*models.SongChoice, error)
	ListByUser(userID string) ([]models.SongChoice, error)
	Upsert(c *models.SongChoice) error
}

// RatingRepo owns ratings, unique per (author, ratedUser, round).
type RatingRepo interface {
	// GetByAuthorAndTarget returns nil, nil when no rating exists.
	GetByAuthorAndTarget(authorID, targetID string, round int) (*models.Rating, error)
	ListByRound(round int) ([]models.Rating, error)
	ListByTargetAndRound(targetID string, round int) ([]models.Rating, error)
	ListAll() ([]models.Rating, error)
	Upsert(rt *models.Rating) error
	DeleteAll() error
}

// StateRepo owns the competition state singleton.
type StateRepo interface {
	// GetLatest returns the most recently updated state record, or nil, nil
	// when none exists yet. Absence is not an error.
	GetLatest() (*models.CompetitionState, error)
	// Upsert applies the patch to the existing record, or creates one by
	// merging the patch over defaults (round 1, result_locked, not started).
	Upsert(patch models.StatePatch) (*models.CompetitionState, error)
}

// SettingsRepo owns the admin-managed settings singleton.
type SettingsRepo interface {
	Get() (*models.Settings, error)
	Save(s *models.Settings) error
}

// SessionRepo owns bearer-token sessions.
type SessionRepo interface {
	Create(token, userID string) error
	// GetUser resolves a session token to its user, ErrNotFound otherwise.
	GetUser(token string) (*models.User, error)
	Delete(token string) error
}

// Store bundles the typed repositories handlers depend on. Construct one
// with NewPostgres or NewMemory.
type Store struct {
	Users       UserRepo
	SongChoices SongChoiceRepo
	Ratings     RatingRepo
	State       StateRepo
	Settings    SettingsRepo
	Sessions    SessionRepo
}
