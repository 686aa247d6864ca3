// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vocal-royale/models"
	"github.com/danielhkuo/vocal-royale/testutil"
)

func getResultsState(t *testing.T, f *competitionFixture, path string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewResultsHandler(f.st, testutil.GetTestConfig())
	req := testutil.MakeRequest(t, "GET", path, nil, "")
	w := httptest.NewRecorder()
	h.State(w, req)
	return w
}

func TestResultsState_DefaultRound(t *testing.T) {
	f := setupCompetition(t)
	testutil.CreateTestRating(t, f.st, f.judy.ID, f.anna.ID, 1, 5)
	testutil.CreateTestRating(t, f.st, f.sam.ID, f.ben.ID, 1, 2)

	w := getResultsState(t, f, "/results/state")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.ResultsStateResponse
	testutil.DecodeJSON(t, w, &resp)

	assert.Equal(t, 1, resp.Round)
	assert.Equal(t, 2, resp.TotalRounds)
	assert.Equal(t, 2, resp.MaxRound)
	assert.False(t, resp.IsFinale)
	assert.Empty(t, resp.FinalRankings)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, f.anna.ID, resp.Results[0].UserID)
	require.NotNil(t, resp.Winner)
	assert.Equal(t, f.anna.ID, resp.Winner.UserID)
}

func TestResultsState_RoundParam(t *testing.T) {
	f := setupCompetition(t)
	testutil.CreateTestRating(t, f.st, f.judy.ID, f.ben.ID, 2, 5)

	w := getResultsState(t, f, "/results/state?round=2")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ResultsStateResponse
	testutil.DecodeJSON(t, w, &resp)
	assert.Equal(t, 2, resp.Round)
	assert.True(t, resp.IsFinale)
	require.NotNil(t, resp.Winner)
	assert.Equal(t, f.ben.ID, resp.Winner.UserID)
	assert.NotEmpty(t, resp.FinalRankings)
}

func TestResultsState_InvalidRound(t *testing.T) {
	f := setupCompetition(t)

	for _, path := range []string{
		"/results/state?round=abc",
		"/results/state?round=0",
		"/results/state?round=99",
	} {
		w := getResultsState(t, f, path)
		requireErrorCode(t, w, models.ErrInvalidRound)
	}
}

func TestResultsState_ExcludesEarlierEliminations(t *testing.T) {
	f := setupCompetition(t)

	// carla fell in round 1; she still shows in round 1 standings but not in
	// round 2's.
	round1 := 1
	require.NoError(t, f.st.Users.Update(f.carla.ID, models.UserPatch{
		Eliminated: boolPtr(true),
		Round:      &round1,
	}))
	testutil.CreateTestRating(t, f.st, f.judy.ID, f.anna.ID, 1, 4)
	testutil.CreateTestRating(t, f.st, f.judy.ID, f.carla.ID, 1, 2)

	w := getResultsState(t, f, "/results/state?round=1")
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ResultsStateResponse
	testutil.DecodeJSON(t, w, &resp)

	ids := make([]string, 0, len(resp.Results))
	for _, row := range resp.Results {
		ids = append(ids, row.UserID)
	}
	assert.Contains(t, ids, f.carla.ID)

	w = getResultsState(t, f, "/results/state?round=2")
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeJSON(t, w, &resp)

	ids = ids[:0]
	for _, row := range resp.Results {
		ids = append(ids, row.UserID)
	}
	assert.NotContains(t, ids, f.carla.ID)
	assert.Contains(t, ids, f.anna.ID)
	assert.Contains(t, ids, f.ben.ID)
}

func TestResultsState_FinalRankingsOrder(t *testing.T) {
	f := setupCompetition(t)

	round1 := 1
	require.NoError(t, f.st.Users.Update(f.ben.ID, models.UserPatch{Eliminated: boolPtr(true), Round: &round1}))
	require.NoError(t, f.st.Users.Update(f.carla.ID, models.UserPatch{Eliminated: boolPtr(true), Round: &round1}))

	// carla beat ben on average before both were cut in round 1
	testutil.CreateTestRating(t, f.st, f.judy.ID, f.anna.ID, 1, 3)
	testutil.CreateTestRating(t, f.st, f.judy.ID, f.ben.ID, 1, 2)
	testutil.CreateTestRating(t, f.st, f.judy.ID, f.carla.ID, 1, 4)
	testutil.CreateTestRating(t, f.st, f.judy.ID, f.anna.ID, 2, 5)

	w := getResultsState(t, f, "/results/state?round=2")
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ResultsStateResponse
	testutil.DecodeJSON(t, w, &resp)

	require.Len(t, resp.FinalRankings, 3)
	assert.Equal(t, f.anna.ID, resp.FinalRankings[0].UserID)
	assert.Equal(t, 1, resp.FinalRankings[0].Rank)
	assert.Equal(t, f.carla.ID, resp.FinalRankings[1].UserID)
	assert.Equal(t, f.ben.ID, resp.FinalRankings[2].UserID)
}
