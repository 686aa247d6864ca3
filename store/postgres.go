// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/danielhkuo/vocal-royale/models"
)

// NewPostgres returns a Store backed by PostgreSQL.
func NewPostgres(db *sql.DB) *Store {
	return &Store{
		Users:       &pgUserRepo{db: db},
		SongChoices: &pgSongChoiceRepo{db: db},
		Ratings:     &pgRatingRepo{db: db},
		State:       &pgStateRepo{db: db},
		Settings:    &pgSettingsRepo{db: db},
		Sessions:    &pgSessionRepo{db: db},
	}
}

// Users

type pgUserRepo struct {
	db *sql.DB
}

const userColumns = `id, username, first_name, name, email, role, artist_name,
       checked_in, eliminated, sang_this_round, round, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.Name, &u.Email, &u.Role,
		&u.ArtistName, &u.CheckedIn, &u.Eliminated, &u.SangThisRound,
		&u.Round, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgUserRepo) Create(u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(`
		INSERT INTO users (id, username, first_name, name, email, role, artist_name,
		                   checked_in, eliminated, sang_this_round, round, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, u.ID, u.Username, u.FirstName, u.Name, u.Email, u.Role, u.ArtistName,
		u.CheckedIn, u.Eliminated, u.SangThisRound, u.Round, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *pgUserRepo) GetByID(id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) GetByUsername(username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) ListByRole(roles ...string) ([]models.User, error) {
	rows, err := r.db.Query(`
		SELECT `+userColumns+`
		FROM users
		WHERE role = ANY($1)
		ORDER BY created_at
	`, pq.Array(roles))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *pgUserRepo) CountByRole(role string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *pgUserRepo) Update(id string, patch models.UserPatch) error {
	u, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if patch.CheckedIn != nil {
		u.CheckedIn = *patch.CheckedIn
	}
	if patch.Eliminated != nil {
		u.Eliminated = *patch.Eliminated
	}
	if patch.SangThisRound != nil {
		u.SangThisRound = *patch.SangThisRound
	}
	if patch.Round != nil {
		u.Round = patch.Round
	}
	if patch.ClearRound {
		u.Round = nil
	}
	_, err = r.db.Exec(`
		UPDATE users
		SET checked_in = $1, eliminated = $2, sang_this_round = $3, round = $4
		WHERE id = $5
	`, u.CheckedIn, u.Eliminated, u.SangThisRound, u.Round, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *pgUserRepo) ResetSangThisRound() error {
	_, err := r.db.Exec(`UPDATE users SET sang_this_round = FALSE`)
	if err != nil {
		return fmt.Errorf("failed to reset sang_this_round: %w", err)
	}
	return nil
}

func (r *pgUserRepo) ResetCompetitionFlags() error {
	_, err := r.db.Exec(`UPDATE users SET eliminated = FALSE, sang_this_round = FALSE, round = NULL`)
	if err != nil {
		return fmt.Errorf("failed to reset competition flags: %w", err)
	}
	return nil
}

// Song choices

type pgSongChoiceRepo struct {
	db *sql.DB
}

func (r *pgSongChoiceRepo) GetByUserAndRound(userID string, round int) (*models.SongChoice, error) {
	var c models.SongChoice
	err := r.db.QueryRow(`
		SELECT id, user_id, round, artist, song_title, confirmed, created_at
		FROM song_choices
		WHERE user_id = $1 AND round = $2
	`, userID, round).Scan(&c.ID, &c.User, &c.Round, &c.Artist, &c.SongTitle, &c.Confirmed, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query song choice: %w", err)
	}
	return &c, nil
}

func (r *pgSongChoiceRepo) ListByUser(userID string) ([]models.SongChoice, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, round, artist, song_title, confirmed, created_at
		FROM song_choices
		WHERE user_id = $1
		ORDER BY round
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query song choices: %w", err)
	}
	defer rows.Close()

	var choices []models.SongChoice
	for rows.Next() {
		var c models.SongChoice
		if err := rows.Scan(&c.ID, &c.User, &c.Round, &c.Artist, &c.SongTitle, &c.Confirmed, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song choice: %w", err)
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

func (r *pgSongChoiceRepo) Upsert(c *models.SongChoice) error {
	existing, err := r.GetByUserAndRound(c.User, c.Round)
	if err != nil {
		return err
	}
	if existing != nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		_, err = r.db.Exec(`
			UPDATE song_choices
			SET artist = $1, song_title = $2, confirmed = $3
			WHERE id = $4
		`, c.Artist, c.SongTitle, c.Confirmed, c.ID)
		if err != nil {
			return fmt.Errorf("failed to update song choice: %w", err)
		}
		return nil
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	_, err = r.db.Exec(`
		INSERT INTO song_choices (id, user_id, round, artist, song_title, confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.User, c.Round, c.Artist, c.SongTitle, c.Confirmed, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert song choice: %w", err)
	}
	return nil
}

// Ratings

type pgRatingRepo struct {
	db *sql.DB
}

func (r *pgRatingRepo) GetByAuthorAndTarget(authorID, targetID string, round int) (*models.Rating, error) {
	var rt models.Rating
	err := r.db.QueryRow(`
		SELECT id, author_id, rated_user_id, round, rating, comment, created_at
		FROM ratings
		WHERE author_id = $1 AND rated_user_id = $2 AND round = $3
	`, authorID, targetID, round).Scan(&rt.ID, &rt.Author, &rt.RatedUser, &rt.Round, &rt.Rating, &rt.Comment, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rating: %w", err)
	}
	return &rt, nil
}

func (r *pgRatingRepo) listWhere(where string, args ...any) ([]models.Rating, error) {
	rows, err := r.db.Query(`
		SELECT id, author_id, rated_user_id, round, rating, comment, created_at
		FROM ratings `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.Author, &rt.RatedUser, &rt.Round, &rt.Rating, &rt.Comment, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

func (r *pgRatingRepo) ListByRound(round int) ([]models.Rating, error) {
	return r.listWhere(`WHERE round = $1`, round)
}

func (r *pgRatingRepo) ListByTargetAndRound(targetID string, round int) ([]models.Rating, error) {
	return r.listWhere(`WHERE rated_user_id = $1 AND round = $2`, targetID, round)
}

func (r *pgRatingRepo) ListAll() ([]models.Rating, error) {
	return r.listWhere(``)
}

func (r *pgRatingRepo) Upsert(rt *models.Rating) error {
	existing, err := r.GetByAuthorAndTarget(rt.Author, rt.RatedUser, rt.Round)
	if err != nil {
		return err
	}
	if existing != nil {
		rt.ID = existing.ID
		rt.CreatedAt = existing.CreatedAt
		_, err = r.db.Exec(`
			UPDATE ratings SET rating = $1, comment = $2 WHERE id = $3
		`, rt.Rating, rt.Comment, rt.ID)
		if err != nil {
			return fmt.Errorf("failed to update rating: %w", err)
		}
		return nil
	}
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	rt.CreatedAt = time.Now()
	_, err = r.db.Exec(`
		INSERT INTO ratings (id, author_id, rated_user_id, round, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rt.ID, rt.Author, rt.RatedUser, rt.Round, rt.Rating, rt.Comment, rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

func (r *pgRatingRepo) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM ratings`)
	if err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}
	return nil
}

// Competition state

type pgStateRepo struct {
	db *sql.DB
}

func (r *pgStateRepo) GetLatest() (*models.CompetitionState, error) {
	var s models.CompetitionState
	var active sql.NullString
	err := r.db.QueryRow(`
		SELECT id, round, round_state, competition_started, competition_finished,
		       active_participant, updated_at
		FROM competition_state
		ORDER BY updated_at DESC
		LIMIT 1
	`).Scan(&s.ID, &s.Round, &s.RoundState, &s.CompetitionStarted, &s.CompetitionFinished, &active, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query competition state: %w", err)
	}
	s.ActiveParticipant = active.String
	return &s, nil
}

func (r *pgStateRepo) Upsert(patch models.StatePatch) (*models.CompetitionState, error) {
	s, err := r.GetLatest()
	if err != nil {
		return nil, err
	}
	isNew := s == nil
	if isNew {
		s = &models.CompetitionState{
			ID:         uuid.NewString(),
			Round:      1,
			RoundState: models.StateResultLocked,
		}
	}
	applyStatePatch(s, patch)
	s.UpdatedAt = time.Now()

	active := sql.NullString{String: s.ActiveParticipant, Valid: s.ActiveParticipant != ""}
	if isNew {
		_, err = r.db.Exec(`
			INSERT INTO competition_state (id, round, round_state, competition_started,
			                               competition_finished, active_participant, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, s.ID, s.Round, s.RoundState, s.CompetitionStarted, s.CompetitionFinished, active, s.UpdatedAt)
	} else {
		_, err = r.db.Exec(`
			UPDATE competition_state
			SET round = $1, round_state = $2, competition_started = $3,
			    competition_finished = $4, active_participant = $5, updated_at = $6
			WHERE id = $7
		`, s.Round, s.RoundState, s.CompetitionStarted, s.CompetitionFinished, active, s.UpdatedAt, s.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert competition state: %w", err)
	}
	return s, nil
}

func applyStatePatch(s *models.CompetitionState, patch models.StatePatch) {
	if patch.Round != nil {
		s.Round = *patch.Round
	}
	if patch.RoundState != nil {
		s.RoundState = *patch.RoundState
	}
	if patch.CompetitionStarted != nil {
		s.CompetitionStarted = *patch.CompetitionStarted
	}
	if patch.CompetitionFinished != nil {
		s.CompetitionFinished = *patch.CompetitionFinished
	}
	if patch.ActiveParticipant != nil {
		s.ActiveParticipant = *patch.ActiveParticipant
	}
}

// Settings

type pgSettingsRepo struct {
	db *sql.DB
}

func (r *pgSettingsRepo) Get() (*models.Settings, error) {
	var s models.Settings
	var pattern string
	var deadline sql.NullTime
	err := r.db.QueryRow(`
		SELECT id, total_rounds, number_of_final_songs, max_participant_count,
		       max_juror_count, round_elimination_pattern, song_choice_deadline
		FROM settings
		LIMIT 1
	`).Scan(&s.ID, &s.TotalRounds, &s.NumberOfFinalSongs, &s.MaxParticipantCount,
		&s.MaxJurorCount, &pattern, &deadline)
	if err == sql.ErrNoRows {
		defaults := models.DefaultSettings()
		defaults.ID = uuid.NewString()
		if err := r.insert(&defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	if err := json.Unmarshal([]byte(pattern), &s.RoundEliminationPattern); err != nil {
		return nil, fmt.Errorf("failed to decode elimination pattern: %w", err)
	}
	if deadline.Valid {
		s.SongChoiceDeadline = &deadline.Time
	}
	return &s, nil
}

func (r *pgSettingsRepo) Save(s *models.Settings) error {
	existing, err := r.Get()
	if err != nil {
		return err
	}
	s.ID = existing.ID
	pattern, err := json.Marshal(s.RoundEliminationPattern)
	if err != nil {
		return fmt.Errorf("failed to encode elimination pattern: %w", err)
	}
	var deadline sql.NullTime
	if s.SongChoiceDeadline != nil {
		deadline = sql.NullTime{Time: *s.SongChoiceDeadline, Valid: true}
	}
	_, err = r.db.Exec(`
		UPDATE settings
		SET total_rounds = $1, number_of_final_songs = $2, max_participant_count = $3,
		    max_juror_count = $4, round_elimination_pattern = $5, song_choice_deadline = $6
		WHERE id = $7
	`, s.TotalRounds, s.NumberOfFinalSongs, s.MaxParticipantCount, s.MaxJurorCount,
		string(pattern), deadline, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

func (r *pgSettingsRepo) insert(s *models.Settings) error {
	pattern, err := json.Marshal(s.RoundEliminationPattern)
	if err != nil {
		return fmt.Errorf("failed to encode elimination pattern: %w", err)
	}
	var deadline sql.NullTime
	if s.SongChoiceDeadline != nil {
		deadline = sql.NullTime{Time: *s.SongChoiceDeadline, Valid: true}
	}
	_, err = r.db.Exec(`
		INSERT INTO settings (id, total_rounds, number_of_final_songs, max_participant_count,
		                      max_juror_count, round_elimination_pattern, song_choice_deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.TotalRounds, s.NumberOfFinalSongs, s.MaxParticipantCount,
		s.MaxJurorCount, string(pattern), deadline)
	if err != nil {
		return fmt.Errorf("failed to insert settings: %w", err)
	}
	return nil
}

// Sessions

type pgSessionRepo struct {
	db *sql.DB
}

func (r *pgSessionRepo) Create(token, userID string) error {
	_, err := r.db.Exec(`
		INSERT INTO sessions (token, user_id, created_at)
		VALUES ($1, $2, $3)
	`, token, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *pgSessionRepo) GetUser(token string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = (SELECT user_id FROM sessions WHERE token = $1)
	`, token))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session user: %w", err)
	}
	return u, nil
}

func (r *pgSessionRepo) Delete(token string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
