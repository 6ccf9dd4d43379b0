package scorecard

import "github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"

// BuildScorecard derives the scorecard view: batting for sides that have
// batted, bowling for sides whose opponent has batted, and the innings phase.
func BuildScorecard(state *models.MatchState) models.Scorecard {
	sc := models.Scorecard{
		MatchInfo:    state.MatchInfo,
		Teams:        state.Teams,
		BattingStats: make(map[models.TeamSlot][]models.BattingEntry),
		BowlingStats: make(map[models.TeamSlot][]models.BowlingEntry),
		MatchState:   models.PhaseInProgress,
		LastUpdated:  state.LastUpdated,
	}

	batted := func(slot models.TeamSlot) bool {
		team, ok := state.Teams[slot]
		return ok && !models.IsYetToBat(team.Score)
	}

	for slot, entries := range state.BattingStats {
		if batted(slot) {
			sc.BattingStats[slot] = entries
		}
	}
	for slot, entries := range state.BowlingStats {
		if batted(slot.Opponent()) {
			sc.BowlingStats[slot] = entries
		}
	}

	switch {
	case batted(models.Team1) && batted(models.Team2):
		sc.MatchState = models.PhaseSecondInnings
		sc.BattingTeam, sc.BowlingTeam = models.Team2, models.Team1
		if state.IsComplete() {
			sc.MatchState = models.PhaseCompleted
		}
	case batted(models.Team1):
		sc.MatchState = models.PhaseFirstInnings
		sc.BattingTeam, sc.BowlingTeam = models.Team1, models.Team2
	}

	return sc
}

// MatchPhase returns the innings phase of state as reported by the scorecard view.
func MatchPhase(state *models.MatchState) string {
	return BuildScorecard(state).MatchState
}
