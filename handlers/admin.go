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

// Rng is the random source used to pick the next performer. math/rand's
// *rand.Rand satisfies it; tests inject a fixed sequence.
type Rng interface {
	Intn(n int) int
}

type AdminHandler struct {
	st  *store.Store
	cfg cliparse.Config
	rng Rng
}

func NewAdminHandler(st *store.Store, cfg cliparse.Config, rng Rng) *AdminHandler {
	return &AdminHandler{st: st, cfg: cfg, rng: rng}
}

// GetState handles GET /admin/api
// Returns the competition state singleton plus the resolved active participant.
func (h *AdminHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.st.State.GetLatest()
	if err != nil {
		slog.Error("failed to load competition state", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	var active *models.User
	if state != nil && state.ActiveParticipant != "" {
		active, err = h.st.Users.GetByID(state.ActiveParticipant)
		if err == store.ErrNotFound {
			active = nil // stale pointer; POST actions clean it up
		} else if err != nil {
			slog.Error("failed to load active participant", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminStateResponse{
		State:             state,
		ActiveParticipant: active,
	})
}

// Action handles POST /admin/api
// Dispatches one of the seven named competition actions.
func (h *AdminHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req models.AdminActionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRequest)
		return
	}

	if !models.IsAction(req.Action) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidAction)
		return
	}

	state, err := h.st.State.GetLatest()
	if err != nil {
		slog.Error("failed to load competition state", "error", err, "action", req.Action)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
		return
	}

	// A missing state record behaves like the initial locked state.
	roundState := models.StateResultLocked
	if state != nil {
		roundState = state.RoundState
	}
	if !models.ActionAllowed(req.Action, roundState) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidAction)
		return
	}

	slog.Info("admin action", "action", req.Action, "round_state", roundState)

	switch req.Action {
	case models.ActionStartCompetition:
		h.startCompetition(w)
	case models.ActionActivateRatingPhase:
		h.activateRatingPhase(w, state)
	case models.ActionNextParticipant:
		h.nextParticipant(w, state)
	case models.ActionFinalizeRatings:
		h.finalizeRatings(w)
	case models.ActionShowResults:
		h.showResults(w, state)
	case models.ActionStartNextRound:
		h.startNextRound(w, state)
	case models.ActionResetGame:
		h.resetGame(w)
	}
}

func (h *AdminHandler) startCompetition(w http.ResponseWriter) {
	settings, err := h.st.Settings.Get()
	if err != nil {
		h.internalError(w, "failed to load settings", err)
		return
	}

	members, err := h.st.Users.ListByRole(models.RoleParticipant, models.RoleJuror)
	if err != nil {
		h.internalError(w, "failed to list members", err)
		return
	}

	for _, m := range members {
		if !m.CheckedIn {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrMissingCheckins)
			return
		}
	}

	var participants []models.User
	for _, m := range members {
		if m.Role == models.RoleParticipant {
			participants = append(participants, m)
		}
	}

	for _, p := range participants {
		for round := 1; round <= settings.TotalRounds; round++ {
			choice, err := h.st.SongChoices.GetByUserAndRound(p.ID, round)
			if err != nil {
				h.internalError(w, "failed to load song choice", err)
				return
			}
			if choice == nil || !choice.Confirmed {
				middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrMissingSongChoices)
				return
			}
		}
	}

	// Best-effort: a failed flag reset must not block the competition start.
	if err := h.st.Users.ResetSangThisRound(); err != nil {
		slog.Warn("failed to reset sang_this_round before start", "error", err)
	}
	for i := range participants {
		participants[i].SangThisRound = false
	}

	active := h.pickEligible(participants)
	if active == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrNoActiveParticipant)
		return
	}

	state, err := h.st.State.Upsert(models.StatePatch{
		CompetitionStarted: boolPtr(true),
		RoundState:         strPtr(models.StateSingingPhase),
		ActiveParticipant:  &active.ID,
	})
	if err != nil {
		h.internalError(w, "failed to upsert competition state", err)
		return
	}

	slog.Info("competition started", "active_participant", active.ID)
	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		OK:                true,
		State:             state,
		ActiveParticipant: active,
	})
}

func (h *AdminHandler) activateRatingPhase(w http.ResponseWriter, state *models.CompetitionState) {
	if state == nil || state.ActiveParticipant == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrNoActiveParticipant)
		return
	}

	active, err := h.st.Users.GetByID(state.ActiveParticipant)
	if err == store.ErrNotFound {
		// The pointer refers to a deleted user; clear it so the admin can
		// pick again.
		if _, err := h.st.State.Upsert(models.StatePatch{ActiveParticipant: strPtr("")}); err != nil {
			slog.Warn("failed to clear stale active participant", "error", err)
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrNoActiveParticipant)
		return
	}
	if err != nil {
		h.internalError(w, "failed to load active participant", err)
		return
	}

	if err := h.st.Users.Update(active.ID, models.UserPatch{SangThisRound: boolPtr(true)}); err != nil {
		h.internalError(w, "failed to mark participant as sung", err)
		return
	}
	active.SangThisRound = true

	state, err = h.st.State.Upsert(models.StatePatch{RoundState: strPtr(models.StateRatingPhase)})
	if err != nil {
		h.internalError(w, "failed to upsert competition state", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		OK:                true,
		State:             state,
		ActiveParticipant: active,
	})
}

func (h *AdminHandler) nextParticipant(w http.ResponseWriter, state *models.CompetitionState) {
	if state == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidAction)
		return
	}

	if state.ActiveParticipant != "" {
		voters, err := h.st.Users.ListByRole(models.RoleSpectator, models.RoleJuror)
		if err != nil {
			h.internalError(w, "failed to list voters", err)
			return
		}
		ratings, err := h.st.Ratings.ListByTargetAndRound(state.ActiveParticipant, state.Round)
		if err != nil {
			h.internalError(w, "failed to list ratings", err)
			return
		}

		missing := ComputeMissingRatings(voters, state.ActiveParticipant, state.Round, ratings)
		if missing.MissingCount > 0 {
			middleware.JSONResponse(w, http.StatusBadRequest, models.MissingRatingsResponse{
				Error:         models.ErrMissingRatings,
				MissingCount:  missing.MissingCount,
				ExpectedCount: missing.ExpectedCount,
			})
			return
		}
	}

	participants, err := h.st.Users.ListByRole(models.RoleParticipant)
	if err != nil {
		h.internalError(w, "failed to list participants", err)
		return
	}

	next := h.pickEligible(participants)
	if next == nil {
		// Everyone sang this round; pause until the admin locks the results.
		state, err = h.st.State.Upsert(models.StatePatch{
			RoundState:        strPtr(models.StateBreak),
			ActiveParticipant: strPtr(""),
		})
		if err != nil {
			h.internalError(w, "failed to upsert competition state", err)
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{OK: true, State: state})
		return
	}

	state, err = h.st.State.Upsert(models.StatePatch{
		RoundState:        strPtr(models.StateSingingPhase),
		ActiveParticipant: &next.ID,
	})
	if err != nil {
		h.internalError(w, "failed to upsert competition state", err)
		return
	}

	slog.Info("next participant", "active_participant", next.ID, "round", state.Round)
	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		OK:                true,
		State:             state,
		ActiveParticipant: next,
	})
}

func (h *AdminHandler) finalizeRatings(w http.ResponseWriter) {
	state, err := h.st.State.Upsert(models.StatePatch{RoundState: strPtr(models.StateResultLocked)})
	if err != nil {
		h.internalError(w, "failed to upsert competition state", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{OK: true, State: state})
}

func (h *AdminHandler) showResults(w http.ResponseWriter, state *models.CompetitionState) {
	round := 1
	if state != nil {
		round = state.Round
	}

	settings, err := h.st.Settings.Get()
	if err != nil {
		h.internalError(w, "failed to load settings", err)
		return
	}

	users, err := h.st.Users.ListByRole(models.RoleParticipant, models.RoleJuror, models.RoleSpectator)
	if err != nil {
		h.internalError(w, "failed to list users", err)
		return
	}

	// Candidates are everyone still standing, plus anyone already cut in
	// this round so a re-run elects the same bottom N.
	var candidates []models.User
	for _, u := range users {
		if u.Role != models.RoleParticipant {
			continue
		}
		if !u.Eliminated || (u.Round != nil && *u.Round == round) {
			candidates = append(candidates, u)
		}
	}

	ratings, err := h.st.Ratings.ListByRound(round)
	if err != nil {
		h.internalError(w, "failed to list ratings", err)
		return
	}

	rows := ComputeRoundResults(candidates, ratings, authorRoleMap(users))
	order := EliminationOrder(rows)
	elimCount := EliminationCount(settings.RoundEliminationPattern, round, settings.TotalRounds, len(candidates))

	eliminated := make([]string, 0, elimCount)
	for i := 0; i < elimCount; i++ {
		id := order[i].UserID
		if err := h.st.Users.Update(id, models.UserPatch{
			Eliminated: boolPtr(true),
			Round:      &round,
		}); err != nil {
			h.internalError(w, "failed to persist elimination", err)
			return
		}
		eliminated = append(eliminated, id)
		for j := range rows {
			if rows[j].UserID == id {
				rows[j].Eliminated = true
			}
		}
	}

	patch := models.StatePatch{RoundState: strPtr(models.StateResultPhase)}
	if round >= settings.TotalRounds {
		patch.CompetitionFinished = boolPtr(true)
	}
	state, err = h.st.State.Upsert(patch)
	if err != nil {
		h.internalError(w, "failed to upsert competition state", err)
		return
	}

	var winner *models.ResultRow
	if len(rows) > 0 {
		winner = &rows[0]
	}

	slog.Info("results shown", "round", round, "eliminated", len(eliminated))
	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		OK:         true,
		State:      state,
		Eliminated: eliminated,
		Winner:     winner,
	})
}

func (h *AdminHandler) startNextRound(w http.ResponseWriter, state *models.CompetitionState) {
	if state == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidAction)
		return
	}

	settings, err := h.st.Settings.Get()
	if err != nil {
		h.internalError(w, "failed to load settings", err)
		return
	}

	if state.Round >= settings.TotalRounds {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrNoNextRound)
		return
	}

	// Best-effort, like start_competition.
	if err := h.st.Users.ResetSangThisRound(); err != nil {
		slog.Warn("failed to reset sang_this_round before next round", "error", err)
	}

	participants, err := h.st.Users.ListByRole(models.RoleParticipant)
	if err != nil {
		h.internalError(w, "failed to list participants", err)
		return
	}
	for i := range participants {
		participants[i].SangThisRound = false
	}

	next := h.pickEligible(participants)
	if next == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrNoActiveParticipant)
		return
	}

	newRound := state.Round + 1
	state, err = h.st.State.Upsert(models.StatePatch{
		Round:              &newRound,
		RoundState:         strPtr(models.StateSingingPhase),
		CompetitionStarted: boolPtr(true),
		ActiveParticipant:  &next.ID,
	})
	if err != nil {
		h.internalError(w, "failed to upsert competition state", err)
		return
	}

	slog.Info("next round started", "round", newRound, "active_participant", next.ID)
	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		OK:                true,
		State:             state,
		ActiveParticipant: next,
	})
}

func (h *AdminHandler) resetGame(w http.ResponseWriter) {
	state, err := h.st.State.Upsert(models.StatePatch{
		CompetitionStarted:  boolPtr(false),
		Round:               intPtr(1),
		RoundState:          strPtr(models.StateResultLocked),
		CompetitionFinished: boolPtr(false),
		ActiveParticipant:   strPtr(""),
	})
	if err != nil {
		h.internalError(w, "failed to reset competition state", err)
		return
	}

	if err := h.st.Users.ResetCompetitionFlags(); err != nil {
		h.internalError(w, "failed to reset participant flags", err)
		return
	}

	if err := h.st.Ratings.DeleteAll(); err != nil {
		h.internalError(w, "failed to delete ratings", err)
		return
	}

	slog.Info("competition reset")
	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{OK: true, State: state})
}

// pickEligible returns a uniformly random participant who is neither
// eliminated nor has sung this round, or nil when none remain.
func (h *AdminHandler) pickEligible(participants []models.User) *models.User {
	var eligible []models.User
	for _, p := range participants {
		if p.Role != models.RoleParticipant {
			continue
		}
		if p.Eliminated || p.SangThisRound {
			continue
		}
		eligible = append(eligible, p)
	}
	if len(eligible) == 0 {
		return nil
	}
	pick := eligible[h.rng.Intn(len(eligible))]
	return &pick
}

func (h *AdminHandler) internalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal)
}

func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
