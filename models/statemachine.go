// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Action names accepted by POST /admin/api.
const (
	ActionStartCompetition    = "start_competition"
	ActionActivateRatingPhase = "activate_rating_phase"
	ActionNextParticipant     = "next_participant"
	ActionFinalizeRatings     = "finalize_ratings"
	ActionShowResults         = "show_results"
	ActionStartNextRound      = "start_next_round"
	ActionResetGame           = "reset_game"
)

// actionStates maps each admin action to the round states it may be applied
// from. A nil entry means the action is valid in every state (its gating, if
// any, is a data precondition rather than a state one).
var actionStates = map[string][]string{
	ActionStartCompetition:    nil,
	ActionActivateRatingPhase: {StateSingingPhase},
	ActionNextParticipant:     {StateSingingPhase, StateRatingPhase, StateRatingRefinement},
	ActionFinalizeRatings:     nil,
	ActionShowResults:         nil,
	ActionStartNextRound:      {StateResultPhase, StatePublishResult},
	ActionResetGame:           nil,
}

// IsAction reports whether name is a known admin action.
func IsAction(name string) bool {
	_, ok := actionStates[name]
	return ok
}

// ActionAllowed reports whether the action may run while the competition is
// in the given round state.
func ActionAllowed(action, roundState string) bool {
	states, ok := actionStates[action]
	if !ok {
		return false
	}
	if states == nil {
		return true
	}
	for _, s := range states {
		if s == roundState {
			return true
		}
	}
	return false
}

// RatingOpen reports whether rating submissions are accepted in the given
// round state.
func RatingOpen(roundState string) bool {
	return roundState == StateRatingPhase || roundState == StateRatingRefinement
}
