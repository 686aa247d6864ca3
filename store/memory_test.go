// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vocal-royale/models"
)

func TestMemoryUsers(t *testing.T) {
	st := NewMemory()

	u := &models.User{Username: "anna", Role: models.RoleParticipant}
	require.NoError(t, st.Users.Create(u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := st.Users.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", got.Username)

	got, err = st.Users.GetByUsername("anna")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = st.Users.GetByID("missing")
	assert.Equal(t, ErrNotFound, err)
	_, err = st.Users.GetByUsername("missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryUsers_ListByRoleOrdered(t *testing.T) {
	st := NewMemory()

	base := time.Now()
	for i, name := range []string{"carla", "anna", "ben"} {
		require.NoError(t, st.Users.Create(&models.User{
			Username:  name,
			Role:      models.RoleParticipant,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, st.Users.Create(&models.User{Username: "judy", Role: models.RoleJuror, CreatedAt: base}))

	participants, err := st.Users.ListByRole(models.RoleParticipant)
	require.NoError(t, err)
	require.Len(t, participants, 3)
	assert.Equal(t, "carla", participants[0].Username)
	assert.Equal(t, "anna", participants[1].Username)
	assert.Equal(t, "ben", participants[2].Username)

	both, err := st.Users.ListByRole(models.RoleParticipant, models.RoleJuror)
	require.NoError(t, err)
	assert.Len(t, both, 4)

	n, err := st.Users.CountByRole(models.RoleParticipant)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemoryUsers_UpdateAndResets(t *testing.T) {
	st := NewMemory()
	u := &models.User{Username: "anna", Role: models.RoleParticipant}
	require.NoError(t, st.Users.Create(u))

	round := 2
	tr := true
	require.NoError(t, st.Users.Update(u.ID, models.UserPatch{
		CheckedIn:     &tr,
		Eliminated:    &tr,
		SangThisRound: &tr,
		Round:         &round,
	}))

	got, err := st.Users.GetByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.CheckedIn)
	assert.True(t, got.Eliminated)
	assert.True(t, got.SangThisRound)
	require.NotNil(t, got.Round)
	assert.Equal(t, 2, *got.Round)

	require.NoError(t, st.Users.ResetSangThisRound())
	got, err = st.Users.GetByID(u.ID)
	require.NoError(t, err)
	assert.False(t, got.SangThisRound)
	assert.True(t, got.Eliminated)

	require.NoError(t, st.Users.ResetCompetitionFlags())
	got, err = st.Users.GetByID(u.ID)
	require.NoError(t, err)
	assert.False(t, got.Eliminated)
	assert.Nil(t, got.Round)
	assert.True(t, got.CheckedIn) // check-in survives a reset

	assert.Equal(t, ErrNotFound, st.Users.Update("missing", models.UserPatch{}))
}

func TestMemorySongChoices_Upsert(t *testing.T) {
	st := NewMemory()

	none, err := st.SongChoices.GetByUserAndRound("u1", 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	first := &models.SongChoice{User: "u1", Round: 1, Artist: "Queen", SongTitle: "Somebody to Love"}
	require.NoError(t, st.SongChoices.Upsert(first))
	require.NotEmpty(t, first.ID)

	replacement := &models.SongChoice{User: "u1", Round: 1, Artist: "Queen", SongTitle: "Don't Stop Me Now", Confirmed: true}
	require.NoError(t, st.SongChoices.Upsert(replacement))
	assert.Equal(t, first.ID, replacement.ID)

	require.NoError(t, st.SongChoices.Upsert(&models.SongChoice{User: "u1", Round: 2, Artist: "ABBA", SongTitle: "SOS"}))

	choices, err := st.SongChoices.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, choices, 2)
	assert.Equal(t, 1, choices[0].Round)
	assert.Equal(t, "Don't Stop Me Now", choices[0].SongTitle)
	assert.Equal(t, 2, choices[1].Round)
}

func TestMemoryRatings(t *testing.T) {
	st := NewMemory()

	none, err := st.Ratings.GetByAuthorAndTarget("a", "b", 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	first := &models.Rating{Author: "a", RatedUser: "b", Round: 1, Rating: 3}
	require.NoError(t, st.Ratings.Upsert(first))

	// Same key overwrites, different round does not
	require.NoError(t, st.Ratings.Upsert(&models.Rating{Author: "a", RatedUser: "b", Round: 1, Rating: 5}))
	require.NoError(t, st.Ratings.Upsert(&models.Rating{Author: "a", RatedUser: "b", Round: 2, Rating: 1}))

	got, err := st.Ratings.GetByAuthorAndTarget("a", "b", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, first.ID, got.ID)

	byRound, err := st.Ratings.ListByRound(1)
	require.NoError(t, err)
	assert.Len(t, byRound, 1)

	byTarget, err := st.Ratings.ListByTargetAndRound("b", 2)
	require.NoError(t, err)
	assert.Len(t, byTarget, 1)

	all, err := st.Ratings.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, st.Ratings.DeleteAll())
	all, err = st.Ratings.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryState(t *testing.T) {
	st := NewMemory()

	none, err := st.State.GetLatest()
	require.NoError(t, err)
	assert.Nil(t, none)

	// First upsert merges over the defaults
	started := true
	singing := models.StateSingingPhase
	s, err := st.State.Upsert(models.StatePatch{
		CompetitionStarted: &started,
		RoundState:         &singing,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Round)
	assert.True(t, s.CompetitionStarted)
	assert.Equal(t, models.StateSingingPhase, s.RoundState)
	assert.NotEmpty(t, s.ID)

	// Partial patches leave the rest alone
	round := 3
	s, err = st.State.Upsert(models.StatePatch{Round: &round})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Round)
	assert.True(t, s.CompetitionStarted)
	assert.Equal(t, models.StateSingingPhase, s.RoundState)

	active := "u1"
	s, err = st.State.Upsert(models.StatePatch{ActiveParticipant: &active})
	require.NoError(t, err)
	assert.Equal(t, "u1", s.ActiveParticipant)

	cleared := ""
	s, err = st.State.Upsert(models.StatePatch{ActiveParticipant: &cleared})
	require.NoError(t, err)
	assert.Empty(t, s.ActiveParticipant)

	latest, err := st.State.GetLatest()
	require.NoError(t, err)
	assert.Equal(t, s.ID, latest.ID)
	assert.Equal(t, 3, latest.Round)
}

func TestMemorySettings(t *testing.T) {
	st := NewMemory()

	s, err := st.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, s.TotalRounds)
	assert.Equal(t, []int{5, 3, 3, 2}, s.RoundEliminationPattern)

	// Mutating the returned pattern must not leak into the store
	s.RoundEliminationPattern[0] = 99
	fresh, err := st.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.RoundEliminationPattern[0])

	fresh.TotalRounds = 3
	fresh.RoundEliminationPattern = []int{2, 1}
	require.NoError(t, st.Settings.Save(fresh))

	saved, err := st.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, saved.TotalRounds)
	assert.Equal(t, []int{2, 1}, saved.RoundEliminationPattern)
	assert.Equal(t, s.ID, saved.ID) // settings stay a singleton
}

func TestMemorySessions(t *testing.T) {
	st := NewMemory()
	u := &models.User{Username: "anna", Role: models.RoleSpectator}
	require.NoError(t, st.Users.Create(u))

	require.NoError(t, st.Sessions.Create("tok", u.ID))

	got, err := st.Sessions.GetUser("tok")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = st.Sessions.GetUser("other")
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, st.Sessions.Delete("tok"))
	_, err = st.Sessions.GetUser("tok")
	assert.Equal(t, ErrNotFound, err)

	// Deleting twice is not an error
	require.NoError(t, st.Sessions.Delete("tok"))
}
