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

func TestSettingsGet_Defaults(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewSettingsHandler(st, testutil.GetTestConfig())

	req := testutil.MakeRequest(t, "GET", "/admin/settings", nil, "")
	w := httptest.NewRecorder()
	h.Get(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var settings models.Settings
	testutil.DecodeJSON(t, w, &settings)
	assert.Equal(t, 5, settings.TotalRounds)
	assert.Equal(t, []int{5, 3, 3, 2}, settings.RoundEliminationPattern)
	assert.Equal(t, 15, settings.MaxParticipantCount)
	assert.Equal(t, 4, settings.MaxJurorCount)
	assert.Equal(t, 2, settings.NumberOfFinalSongs)
}

func TestSettingsUpdate(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewSettingsHandler(st, testutil.GetTestConfig())

	req := testutil.MakeRequest(t, "PUT", "/admin/settings", models.Settings{
		TotalRounds:             3,
		NumberOfFinalSongs:      1,
		MaxParticipantCount:     8,
		MaxJurorCount:           2,
		RoundEliminationPattern: []int{3, 2},
	}, "")
	w := httptest.NewRecorder()
	h.Update(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := st.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, stored.TotalRounds)
	assert.Equal(t, []int{3, 2}, stored.RoundEliminationPattern)
	assert.Equal(t, 8, stored.MaxParticipantCount)
}

func TestSettingsUpdate_Validation(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewSettingsHandler(st, testutil.GetTestConfig())

	valid := models.Settings{
		TotalRounds:             3,
		NumberOfFinalSongs:      1,
		MaxParticipantCount:     8,
		MaxJurorCount:           2,
		RoundEliminationPattern: []int{3, 2},
	}

	testCases := []struct {
		name   string
		mutate func(*models.Settings)
	}{
		{"one round is not a competition", func(s *models.Settings) { s.TotalRounds = 1 }},
		{"no final songs", func(s *models.Settings) { s.NumberOfFinalSongs = 0 }},
		{"no participants", func(s *models.Settings) { s.MaxParticipantCount = 0 }},
		{"negative juror cap", func(s *models.Settings) { s.MaxJurorCount = -1 }},
		{"negative pattern entry", func(s *models.Settings) { s.RoundEliminationPattern = []int{-1} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			s.RoundEliminationPattern = append([]int(nil), valid.RoundEliminationPattern...)
			tc.mutate(&s)

			req := testutil.MakeRequest(t, "PUT", "/admin/settings", s, "")
			w := httptest.NewRecorder()
			h.Update(w, req)

			requireErrorCode(t, w, models.ErrInvalidRequest)
		})
	}

	// Defaults survive the rejected updates
	stored, err := st.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, stored.TotalRounds)
}
