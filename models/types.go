// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Round state constants
const (
	StateSingingPhase     = "singing_phase"
	StateRatingPhase      = "rating_phase"
	StateResultLocked     = "result_locked"
	StateResultPhase      = "result_phase"
	StatePublishResult    = "publish_result"
	StateBreak            = "break"
	StateRatingRefinement = "rating_refinement"
)

// User role constants
const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
	RoleJuror       = "juror"
	RoleSpectator   = "spectator"
)

// Rating weights by author role
const (
	WeightJuror   = 2
	WeightDefault = 1
)

// Error codes returned in the "error" field of 4xx/5xx responses
const (
	ErrUnauthenticated      = "unauthenticated"
	ErrInvalidRequest       = "invalid_request"
	ErrForbidden            = "forbidden"
	ErrNotFound             = "not_found"
	ErrInternal             = "internal_error"
	ErrInvalidAction        = "invalid_action"
	ErrNoActiveParticipant  = "no_active_participant"
	ErrMissingRatings       = "missing_ratings"
	ErrMissingCheckins      = "missing_checkins"
	ErrMissingSongChoices   = "missing_song_choices"
	ErrNoNextRound          = "no_next_round"
	ErrRatingClosed         = "rating_closed"
	ErrSelfRatingNotAllowed = "self_rating_not_allowed"
	ErrInvalidRound         = "invalid_round"
	ErrInvalidRating        = "invalid_rating"
	ErrParticipantsFull     = "participants_full"
	ErrJurorsFull           = "jurors_full"
	ErrSongChoiceLocked     = "song_choice_locked"
	ErrDeadlinePassed       = "deadline_passed"
	ErrUsernameTaken        = "username_taken"
	ErrInvalidCredentials   = "invalid_credentials"
)

// MaxCommentLength is the longest rating comment the store accepts.
// Longer comments are clipped at the boundary.
const MaxCommentLength = 100

// Request types

type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	FirstName  string `json:"first_name"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ArtistName string `json:"artist_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminActionRequest struct {
	Action string `json:"action"`
}

type SubmitRatingRequest struct {
	Round     int    `json:"round"`
	RatedUser string `json:"ratedUser"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

type SongChoiceRequest struct {
	Round     int    `json:"round"`
	Artist    string `json:"artist"`
	SongTitle string `json:"songTitle"`
	Confirmed bool   `json:"confirmed"`
}

// Response types

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type SubmitRatingResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type AdminStateResponse struct {
	State             *CompetitionState `json:"state"`
	ActiveParticipant *User             `json:"activeParticipant"`
}

type ActionResponse struct {
	OK                bool              `json:"ok"`
	State             *CompetitionState `json:"state,omitempty"`
	ActiveParticipant *User             `json:"activeParticipant,omitempty"`
	Eliminated        []string          `json:"eliminated,omitempty"`
	Winner            *ResultRow        `json:"winner,omitempty"`
}

type RatingStateResponse struct {
	CompetitionStarted  bool       `json:"competitionStarted"`
	RoundState          string     `json:"roundState"`
	Round               int        `json:"round"`
	CompetitionFinished bool       `json:"competitionFinished"`
	ActiveParticipant   *User      `json:"activeParticipant"`
	Winner              *ResultRow `json:"winner,omitempty"`
}

type ResultsStateResponse struct {
	Round         int            `json:"round"`
	Results       []ResultRow    `json:"results"`
	Winner        *ResultRow     `json:"winner"`
	FinalRankings []FinalRanking `json:"finalRankings,omitempty"`
	TotalRounds   int            `json:"totalRounds"`
	MaxRound      int            `json:"maxRound"`
	IsFinale      bool           `json:"isFinale"`
}

type MissingRatingsResponse struct {
	Error         string `json:"error"`
	MissingCount  int    `json:"missingCount"`
	ExpectedCount int    `json:"expectedCount"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name,omitempty"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"-"` // Never expose in JSON
	Role          string    `json:"role"`
	ArtistName    string    `json:"artist_name,omitempty"`
	CheckedIn     bool      `json:"checked_in"`
	Eliminated    bool      `json:"eliminated"`
	SangThisRound bool      `json:"sang_this_round"`
	Round         *int      `json:"round,omitempty"` // round the user was eliminated in
	PasswordHash  string    `json:"-"`               // Never expose in JSON
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName returns the first non-empty of first name, name, username,
// email, falling back to the record ID.
func (u *User) DisplayName() string {
	for _, s := range []string{u.FirstName, u.Name, u.Username, u.Email} {
		if s != "" {
			return s
		}
	}
	return u.ID
}

type CompetitionState struct {
	ID                  string    `json:"id"`
	Round               int       `json:"round"`
	RoundState          string    `json:"roundState"`
	CompetitionStarted  bool      `json:"competitionStarted"`
	CompetitionFinished bool      `json:"competitionFinished"`
	ActiveParticipant   string    `json:"activeParticipant,omitempty"` // user ID, "" if none
	UpdatedAt           time.Time `json:"updated_at"`
}

// StatePatch is a partial update of the competition state singleton.
// Nil fields are left untouched. ActiveParticipant pointing at "" clears
// the active participant.
type StatePatch struct {
	Round               *int
	RoundState          *string
	CompetitionStarted  *bool
	CompetitionFinished *bool
	ActiveParticipant   *string
}

// UserPatch is a partial update of the competition-owned user fields.
// ClearRound nulls out the elimination round.
type UserPatch struct {
	CheckedIn     *bool
	Eliminated    *bool
	SangThisRound *bool
	Round         *int
	ClearRound    bool
}

type SongChoice struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Round     int       `json:"round"`
	Artist    string    `json:"artist"`
	SongTitle string    `json:"songTitle"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

type Rating struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	RatedUser string    `json:"ratedUser"`
	Round     int       `json:"round"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Settings struct {
	ID                      string     `json:"id"`
	TotalRounds             int        `json:"totalRounds"`
	NumberOfFinalSongs      int        `json:"numberOfFinalSongs"`
	MaxParticipantCount     int        `json:"maxParticipantCount"`
	MaxJurorCount           int        `json:"maxJurorCount"`
	RoundEliminationPattern []int      `json:"roundEliminationPattern"`
	SongChoiceDeadline      *time.Time `json:"songChoiceDeadline,omitempty"`
}

// DefaultSettings returns the settings in effect until an admin saves
// their own.
func DefaultSettings() Settings {
	return Settings{
		TotalRounds:             5,
		NumberOfFinalSongs:      2,
		MaxParticipantCount:     15,
		MaxJurorCount:           4,
		RoundEliminationPattern: []int{5, 3, 3, 2},
	}
}

// Scoring result types

type ResultRow struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	ArtistName string  `json:"artistName,omitempty"`
	Average    float64 `json:"average"`
	Count      int     `json:"count"` // sum of rating weights
	Eliminated bool    `json:"eliminated"`
}

type FinalRanking struct {
	Rank              int     `json:"rank"`
	UserID            string  `json:"userId"`
	Name              string  `json:"name"`
	ArtistName        string  `json:"artistName,omitempty"`
	Average           float64 `json:"average"`
	Count             int     `json:"count"`
	EliminatedInRound int     `json:"eliminatedInRound"`
}

type MissingRatings struct {
	MissingCount  int `json:"missingCount"`
	ExpectedCount int `json:"expectedCount"`
}
