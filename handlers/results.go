// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/vocal-royale/cliparse"
	"github.com/danielhkuo/vocal-royale/middleware"
	"github.com/danielhkuo/vocal-royale/models"
	"github.com/danielhkuo/vocal-royale/store"
)

type ResultsHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewResultsHandler(st *store.Store, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{st: st, cfg: cfg}
}

// State handles GET /results/state?round=<n>
// Returns the standings for the requested round (default: current round),
// plus the cross-round final rankings when the round is the finale. Reads
// never mutate state.
func (h *ResultsHandler) State(w http.ResponseWriter, r *http.Request) {
	settings, err := h.st.Settings.Get()
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	state, err := h.st.State.GetLatest()
	if err != nil {
		slog.Error("failed to load competition state", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	round := 1
	if state != nil {
		round = state.Round
	}
	if param := r.URL.Query().Get("round"); param != "" {
		round, err = strconv.Atoi(param)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRound)
			return
		}
	}
	if round < 1 || round > settings.TotalRounds {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRound)
		return
	}

	users, err := h.st.Users.ListByRole(models.RoleParticipant, models.RoleJuror, models.RoleSpectator)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	// Everyone who was still in the competition when the round ran: not
	// eliminated at all, or eliminated in this round or later.
	var allParticipants, candidates []models.User
	for _, u := range users {
		if u.Role != models.RoleParticipant {
			continue
		}
		allParticipants = append(allParticipants, u)
		if !u.Eliminated || (u.Round != nil && *u.Round >= round) {
			candidates = append(candidates, u)
		}
	}

	ratings, err := h.st.Ratings.ListByRound(round)
	if err != nil {
		slog.Error("failed to list ratings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	rows := ComputeRoundResults(candidates, ratings, authorRoleMap(users))

	var winner *models.ResultRow
	if len(rows) > 0 {
		winner = &rows[0]
	}

	isFinale := round >= settings.TotalRounds
	resp := models.ResultsStateResponse{
		Round:       round,
		Results:     rows,
		Winner:      winner,
		TotalRounds: settings.TotalRounds,
		MaxRound:    settings.TotalRounds,
		IsFinale:    isFinale,
	}

	if isFinale {
		allRatings, err := h.st.Ratings.ListAll()
		if err != nil {
			slog.Error("failed to list ratings", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
			return
		}
		resp.FinalRankings = ComputeFinalRankings(allParticipants, allRatings, authorRoleMap(users), settings.TotalRounds)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
