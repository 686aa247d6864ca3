// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/vocal-royale/cliparse"
	"github.com/danielhkuo/vocal-royale/middleware"
	"github.com/danielhkuo/vocal-royale/models"
	"github.com/danielhkuo/vocal-royale/store"
)

type SongHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewSongHandler(st *store.Store, cfg cliparse.Config) *SongHandler {
	return &SongHandler{st: st, cfg: cfg}
}

// List handles GET /songs
// Returns the caller's song choices across all rounds.
func (h *SongHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrUnauthenticated)
		return
	}

	choices, err := h.st.SongChoices.ListByUser(user.ID)
	if err != nil {
		slog.Error("failed to list song choices", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}
	if choices == nil {
		choices = []models.SongChoice{}
	}

	middleware.JSONResponse(w, http.StatusOK, choices)
}

// Upsert handles POST /songs
// Creates or replaces the caller's choice for the given round. Choices lock
// once the competition starts and after the configured deadline.
func (h *SongHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrUnauthenticated)
		return
	}
	if user.Role != models.RoleParticipant {
		middleware.ErrorResponse(w, http.StatusForbidden, models.ErrForbidden)
		return
	}

	var req models.SongChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	if req.Artist == "" || req.SongTitle == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	settings, err := h.st.Settings.Get()
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	if req.Round < 1 || req.Round > settings.TotalRounds {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRound)
		return
	}

	if settings.SongChoiceDeadline != nil && time.Now().After(*settings.SongChoiceDeadline) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrDeadlinePassed)
		return
	}

	state, err := h.st.State.GetLatest()
	if err != nil {
		slog.Error("failed to load competition state", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}
	if state != nil && state.CompetitionStarted {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrSongChoiceLocked)
		return
	}

	choice := &models.SongChoice{
		User:      user.ID,
		Round:     req.Round,
		Artist:    req.Artist,
		SongTitle: req.SongTitle,
		Confirmed: req.Confirmed,
	}
	if err := h.st.SongChoices.Upsert(choice); err != nil {
		slog.Error("failed to upsert song choice", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	slog.Info("song choice saved", "user", user.ID, "round", req.Round, "confirmed", req.Confirmed)
	middleware.JSONResponse(w, http.StatusOK, choice)
}

// CheckIn handles POST /checkin
// Marks the calling participant or juror as present. start_competition
// requires everyone to have checked in.
func (h *SongHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrUnauthenticated)
		return
	}
	if user.Role != models.RoleParticipant && user.Role != models.RoleJuror {
		middleware.ErrorResponse(w, http.StatusForbidden, models.ErrForbidden)
		return
	}

	if err := h.st.Users.Update(user.ID, models.UserPatch{CheckedIn: boolPtr(true)}); err != nil {
		slog.Error("failed to check in", "error", err, "user", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	slog.Info("checked in", "user", user.ID, "role", user.Role)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
