// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danielhkuo/vocal-royale/models"
)

// weightForRole returns the multiplier applied to a rating before averaging.
// Juror votes count double; spectators and everyone else count once.
func weightForRole(role string) int {
	if role == models.RoleJuror {
		return models.WeightJuror
	}
	return models.WeightDefault
}

// newNameCollator returns a fresh collator per call; collate.Collator is not
// safe for concurrent use.
func newNameCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// ComputeRoundResults aggregates the given round's ratings over the candidate
// participants with role-based weighting. Rows come back sorted descending by
// weighted average (ties: higher weight count first, then name); the round
// winner is rows[0].
func ComputeRoundResults(participants []models.User, ratings []models.Rating, authorRoles map[string]string) []models.ResultRow {
	type agg struct {
		sum   int
		count int
	}
	sums := make(map[string]*agg, len(participants))
	for _, p := range participants {
		sums[p.ID] = &agg{}
	}

	for _, rt := range ratings {
		a, ok := sums[rt.RatedUser]
		if !ok {
			continue // rating for someone outside the candidate set
		}
		w := weightForRole(authorRoles[rt.Author])
		a.sum += rt.Rating * w
		a.count += w
	}

	rows := make([]models.ResultRow, 0, len(participants))
	for _, p := range participants {
		a := sums[p.ID]
		avg := 0.0
		if a.count > 0 {
			avg = float64(a.sum) / float64(a.count)
		}
		rows = append(rows, models.ResultRow{
			UserID:     p.ID,
			Name:       p.DisplayName(),
			ArtistName: p.ArtistName,
			Average:    avg,
			Count:      a.count,
			Eliminated: p.Eliminated,
		})
	}

	c := newNameCollator()
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]

		// 1. Higher average wins
		if a.Average != b.Average {
			return a.Average > b.Average
		}

		// 2. More rating weight wins
		if a.Count != b.Count {
			return a.Count > b.Count
		}

		// 3. Stable tie-breaking by display name
		return c.CompareString(a.Name, b.Name) < 0
	})

	return rows
}

// EliminationOrder re-sorts result rows worst-first for picking the bottom N:
// ascending by average, ties broken by more rating weight first, then name.
func EliminationOrder(rows []models.ResultRow) []models.ResultRow {
	order := make([]models.ResultRow, len(rows))
	copy(order, rows)

	c := newNameCollator()
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]

		if a.Average != b.Average {
			return a.Average < b.Average
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return c.CompareString(a.Name, b.Name) < 0
	})

	return order
}

// EliminationCount returns how many participants to cut after the given
// round: the pattern entry for the round, clamped so at least one participant
// always survives. The finale never eliminates.
func EliminationCount(pattern []int, round, totalRounds, participantCount int) int {
	if round >= totalRounds {
		return 0
	}
	n := 0
	if round-1 >= 0 && round-1 < len(pattern) {
		n = pattern[round-1]
	}
	if n < 0 {
		n = 0
	}
	if max := participantCount - 1; n > max {
		n = max
	}
	if n < 0 {
		n = 0
	}
	return n
}

// ComputeFinalRankings aggregates every rating across all rounds per
// participant and ranks the field for the finale. Participants never
// eliminated carry totalRounds+1 as their elimination round, so they sort
// above anyone who was cut; within the same elimination round a higher
// all-rounds average wins. Ranks are dense and 1-based.
func ComputeFinalRankings(participants []models.User, ratings []models.Rating, authorRoles map[string]string, totalRounds int) []models.FinalRanking {
	type agg struct {
		sum   int
		count int
	}
	sums := make(map[string]*agg, len(participants))
	for _, p := range participants {
		sums[p.ID] = &agg{}
	}

	for _, rt := range ratings {
		a, ok := sums[rt.RatedUser]
		if !ok {
			continue
		}
		w := weightForRole(authorRoles[rt.Author])
		a.sum += rt.Rating * w
		a.count += w
	}

	rankings := make([]models.FinalRanking, 0, len(participants))
	for _, p := range participants {
		a := sums[p.ID]
		avg := 0.0
		if a.count > 0 {
			avg = float64(a.sum) / float64(a.count)
		}
		elimRound := totalRounds + 1 // sentinel: survived every cut
		if p.Eliminated && p.Round != nil {
			elimRound = *p.Round
		}
		rankings = append(rankings, models.FinalRanking{
			UserID:            p.ID,
			Name:              p.DisplayName(),
			ArtistName:        p.ArtistName,
			Average:           avg,
			Count:             a.count,
			EliminatedInRound: elimRound,
		})
	}

	c := newNameCollator()
	sort.Slice(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]

		// 1. Surviving longer wins
		if a.EliminatedInRound != b.EliminatedInRound {
			return a.EliminatedInRound > b.EliminatedInRound
		}

		// 2. Higher all-rounds average wins
		if a.Average != b.Average {
			return a.Average > b.Average
		}

		// 3. More rating weight wins
		if a.Count != b.Count {
			return a.Count > b.Count
		}

		// 4. Stable tie-breaking by display name
		return c.CompareString(a.Name, b.Name) < 0
	})

	for i := range rankings {
		rankings[i].Rank = i + 1
	}

	return rankings
}

// ComputeMissingRatings reports how many expected voters (spectators and
// jurors) have not yet rated the active participant in the given round.
func ComputeMissingRatings(voters []models.User, activeParticipantID string, round int, ratings []models.Rating) models.MissingRatings {
	rated := make(map[string]bool, len(ratings))
	for _, rt := range ratings {
		if rt.RatedUser == activeParticipantID && rt.Round == round {
			rated[rt.Author] = true
		}
	}

	expected := 0
	missing := 0
	seen := make(map[string]bool, len(voters))
	for _, v := range voters {
		if v.Role != models.RoleSpectator && v.Role != models.RoleJuror {
			continue
		}
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		expected++
		if !rated[v.ID] {
			missing++
		}
	}

	return models.MissingRatings{MissingCount: missing, ExpectedCount: expected}
}

// authorRoleMap builds the author id → role lookup the aggregators use for
// weighting.
func authorRoleMap(users []models.User) map[string]string {
	roles := make(map[string]string, len(users))
	for _, u := range users {
		roles[u.ID] = u.Role
	}
	return roles
}
