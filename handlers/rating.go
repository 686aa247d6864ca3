// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vocal-royale/cliparse"
	"github.com/danielhkuo/vocal-royale/middleware"
	"github.com/danielhkuo/vocal-royale/models"
	"github.com/danielhkuo/vocal-royale/store"
)

type RatingHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewRatingHandler(st *store.Store, cfg cliparse.Config) *RatingHandler {
	return &RatingHandler{st: st, cfg: cfg}
}

// Submit handles POST /rating/api
// Upserts the caller's rating for (ratedUser, round). One rating per author,
// target and round; resubmitting overwrites.
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrUnauthenticated)
		return
	}

	var req models.SubmitRatingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	// Rejected in every phase.
	if req.RatedUser == user.ID {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrSelfRatingNotAllowed)
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRating)
		return
	}

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

	currentRound := 1
	roundState := models.StateResultLocked
	if state != nil {
		currentRound = state.Round
		roundState = state.RoundState
	}

	if req.Round < 1 || req.Round > settings.TotalRounds || req.Round != currentRound {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRound)
		return
	}

	if !models.RatingOpen(roundState) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrRatingClosed)
		return
	}

	target, err := h.st.Users.GetByID(req.RatedUser)
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to load rated user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}
	if target.Role != models.RoleParticipant {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound)
		return
	}

	comment := req.Comment
	if len([]rune(comment)) > models.MaxCommentLength {
		comment = string([]rune(comment)[:models.MaxCommentLength])
	}

	rating := &models.Rating{
		Author:    user.ID,
		RatedUser: req.RatedUser,
		Round:     req.Round,
		Rating:    req.Rating,
		Comment:   comment,
	}
	if err := h.st.Ratings.Upsert(rating); err != nil {
		slog.Error("failed to upsert rating", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	slog.Info("rating submitted", "author", user.ID, "rated_user", req.RatedUser, "round", req.Round)
	middleware.JSONResponse(w, http.StatusOK, models.SubmitRatingResponse{OK: true, ID: rating.ID})
}

// State handles GET /rating/state
// Returns the competition state view used by the rating screen, including
// the round winner once results are up and the overall winner after the
// finale.
func (h *RatingHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.st.State.GetLatest()
	if err != nil {
		slog.Error("failed to load competition state", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	resp := models.RatingStateResponse{
		Round:      1,
		RoundState: models.StateResultLocked,
	}
	if state != nil {
		resp.CompetitionStarted = state.CompetitionStarted
		resp.RoundState = state.RoundState
		resp.Round = state.Round
		resp.CompetitionFinished = state.CompetitionFinished

		if state.ActiveParticipant != "" {
			active, err := h.st.Users.GetByID(state.ActiveParticipant)
			if err != nil && err != store.ErrNotFound {
				slog.Error("failed to load active participant", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
				return
			}
			resp.ActiveParticipant = active
		}
	}

	showRoundWinner := resp.RoundState == models.StateResultPhase || resp.RoundState == models.StatePublishResult
	if showRoundWinner || resp.CompetitionFinished {
		winner, err := h.currentWinner(resp.Round, resp.CompetitionFinished)
		if err != nil {
			slog.Error("failed to compute winner", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
			return
		}
		resp.Winner = winner
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// currentWinner returns the top row of the given round, or of the final
// rankings once the competition is over.
func (h *RatingHandler) currentWinner(round int, finished bool) (*models.ResultRow, error) {
	users, err := h.st.Users.ListByRole(models.RoleParticipant, models.RoleJuror, models.RoleSpectator)
	if err != nil {
		return nil, err
	}
	var participants []models.User
	for _, u := range users {
		if u.Role == models.RoleParticipant {
			participants = append(participants, u)
		}
	}
	if len(participants) == 0 {
		return nil, nil
	}

	if finished {
		settings, err := h.st.Settings.Get()
		if err != nil {
			return nil, err
		}
		ratings, err := h.st.Ratings.ListAll()
		if err != nil {
			return nil, err
		}
		rankings := ComputeFinalRankings(participants, ratings, authorRoleMap(users), settings.TotalRounds)
		if len(rankings) == 0 {
			return nil, nil
		}
		top := rankings[0]
		return &models.ResultRow{
			UserID:     top.UserID,
			Name:       top.Name,
			ArtistName: top.ArtistName,
			Average:    top.Average,
			Count:      top.Count,
		}, nil
	}

	ratings, err := h.st.Ratings.ListByRound(round)
	if err != nil {
		return nil, err
	}
	rows := ComputeRoundResults(participants, ratings, authorRoleMap(users))
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
