// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/vocal-royale/models"
)

// NewMemory returns a Store backed by in-process maps. Used by tests and by
// the -t memory dev mode; data does not survive a restart.
func NewMemory() *Store {
	m := &memory{
		users:    make(map[string]models.User),
		songs:    make(map[string]models.SongChoice),
		ratings:  make(map[string]models.Rating),
		sessions: make(map[string]string),
	}
	m.settings = models.DefaultSettings()
	m.settings.ID = uuid.NewString()
	return &Store{
		Users:       &memUserRepo{m},
		SongChoices: &memSongChoiceRepo{m},
		Ratings:     &memRatingRepo{m},
		State:       &memStateRepo{m},
		Settings:    &memSettingsRepo{m},
		Sessions:    &memSessionRepo{m},
	}
}

type memory struct {
	mu       sync.Mutex
	users    map[string]models.User
	songs    map[string]models.SongChoice // keyed by id
	ratings  map[string]models.Rating     // keyed by id
	state    *models.CompetitionState
	settings models.Settings
	sessions map[string]string // token -> user id
}

// Users

type memUserRepo struct {
	m *memory
}

func (r *memUserRepo) Create(u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.m.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetByUsername(username string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUserRepo) ListByRole(roles ...string) ([]models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.User
	for _, u := range r.m.users {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	sortUsersByCreated(out)
	return out, nil
}

func (r *memUserRepo) CountByRole(role string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, u := range r.m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) Update(id string, patch models.UserPatch) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return ErrNotFound
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
		round := *patch.Round
		u.Round = &round
	}
	if patch.ClearRound {
		u.Round = nil
	}
	r.m.users[id] = u
	return nil
}

func (r *memUserRepo) ResetSangThisRound() error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, u := range r.m.users {
		u.SangThisRound = false
		r.m.users[id] = u
	}
	return nil
}

func (r *memUserRepo) ResetCompetitionFlags() error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, u := range r.m.users {
		u.Eliminated = false
		u.SangThisRound = false
		u.Round = nil
		r.m.users[id] = u
	}
	return nil
}

func sortUsersByCreated(users []models.User) {
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
}

// Song choices

type memSongChoiceRepo struct {
	m *memory
}

func (r *memSongChoiceRepo) GetByUserAndRound(userID string, round int) (*models.SongChoice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.songs {
		if c.User == userID && c.Round == round {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memSongChoiceRepo) ListByUser(userID string) ([]models.SongChoice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.SongChoice
	for _, c := range r.m.songs {
		if c.User == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (r *memSongChoiceRepo) Upsert(c *models.SongChoice) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var existing *models.SongChoice
	for _, sc := range r.m.songs {
		if sc.User == c.User && sc.Round == c.Round {
			sc := sc
			existing = &sc
			break
		}
	}
	if existing != nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.CreatedAt = time.Now()
	}
	r.m.songs[c.ID] = *c
	return nil
}

// Ratings

type memRatingRepo struct {
	m *memory
}

func (r *memRatingRepo) GetByAuthorAndTarget(authorID, targetID string, round int) (*models.Rating, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, rt := range r.m.ratings {
		if rt.Author == authorID && rt.RatedUser == targetID && rt.Round == round {
			rt := rt
			return &rt, nil
		}
	}
	return nil, nil
}

func (r *memRatingRepo) ListByRound(round int) ([]models.Rating, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Rating
	for _, rt := range r.m.ratings {
		if rt.Round == round {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *memRatingRepo) ListByTargetAndRound(targetID string, round int) ([]models.Rating, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Rating
	for _, rt := range r.m.ratings {
		if rt.RatedUser == targetID && rt.Round == round {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *memRatingRepo) ListAll() ([]models.Rating, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.Rating, 0, len(r.m.ratings))
	for _, rt := range r.m.ratings {
		out = append(out, rt)
	}
	return out, nil
}

func (r *memRatingRepo) Upsert(rt *models.Rating) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var existing *models.Rating
	for _, other := range r.m.ratings {
		if other.Author == rt.Author && other.RatedUser == rt.RatedUser && other.Round == rt.Round {
			other := other
			existing = &other
			break
		}
	}
	if existing != nil {
		rt.ID = existing.ID
		rt.CreatedAt = existing.CreatedAt
	} else {
		if rt.ID == "" {
			rt.ID = uuid.NewString()
		}
		rt.CreatedAt = time.Now()
	}
	r.m.ratings[rt.ID] = *rt
	return nil
}

func (r *memRatingRepo) DeleteAll() error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.ratings = make(map[string]models.Rating)
	return nil
}

// Competition state

type memStateRepo struct {
	m *memory
}

func (r *memStateRepo) GetLatest() (*models.CompetitionState, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.state == nil {
		return nil, nil
	}
	s := *r.m.state
	return &s, nil
}

func (r *memStateRepo) Upsert(patch models.StatePatch) (*models.CompetitionState, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.state == nil {
		r.m.state = &models.CompetitionState{
			ID:         uuid.NewString(),
			Round:      1,
			RoundState: models.StateResultLocked,
		}
	}
	s := *r.m.state
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
	s.UpdatedAt = time.Now()
	r.m.state = &s
	out := s
	return &out, nil
}

// Settings

type memSettingsRepo struct {
	m *memory
}

func (r *memSettingsRepo) Get() (*models.Settings, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s := r.m.settings
	s.RoundEliminationPattern = append([]int(nil), s.RoundEliminationPattern...)
	return &s, nil
}

func (r *memSettingsRepo) Save(s *models.Settings) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s.ID = r.m.settings.ID
	r.m.settings = *s
	r.m.settings.RoundEliminationPattern = append([]int(nil), s.RoundEliminationPattern...)
	return nil
}

// Sessions

type memSessionRepo struct {
	m *memory
}

func (r *memSessionRepo) Create(token, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.sessions[token] = userID
	return nil
}

func (r *memSessionRepo) GetUser(token string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	userID, ok := r.m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	u, ok := r.m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memSessionRepo) Delete(token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.sessions, token)
	return nil
}
