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

type SettingsHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewSettingsHandler(st *store.Store, cfg cliparse.Config) *SettingsHandler {
	return &SettingsHandler{st: st, cfg: cfg}
}

// Get handles GET /admin/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.st.Settings.Get()
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, settings)
}

// Update handles PUT /admin/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	if req.TotalRounds < 2 || req.NumberOfFinalSongs < 1 ||
		req.MaxParticipantCount < 1 || req.MaxJurorCount < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}
	for _, n := range req.RoundEliminationPattern {
		if n < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
			return
		}
	}

	if err := h.st.Settings.Save(&req); err != nil {
		slog.Error("failed to save settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	slog.Info("settings updated", "total_rounds", req.TotalRounds, "pattern", req.RoundEliminationPattern)
	middleware.JSONResponse(w, http.StatusOK, &req)
}
