package scorecard

import (
	"fmt"
	"strings"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// Validate repairs cross-section inconsistencies in place and returns
// warnings for the ones it cannot repair.
func Validate(state *models.MatchState) []string {
	var warnings []string

	for _, slot := range models.Slots {
		team, ok := state.Teams[slot]
		if ok && team.HasBatted() && len(state.BattingStats[slot]) == 0 {
			warnings = append(warnings, fmt.Sprintf("%s (%s) has score %q but no batting entries", slot, team.Name, team.Score))
		}
	}

	for slot, bowlers := range state.BowlingStats {
		state.BowlingStats[slot] = dedupeBowlers(bowlers)
	}

	for _, entries := range state.BattingStats {
		for i := range entries {
			if strings.Contains(entries[i].Name, "(") && !strings.Contains(entries[i].Name, ")") {
				entries[i].Name += ")"
			}
		}
	}

	return warnings
}

// dedupeBowlers collapses repeated names onto the slot of their first
// appearance, carrying the latest values.
func dedupeBowlers(bowlers []models.BowlingEntry) []models.BowlingEntry {
	index := make(map[string]int, len(bowlers))
	out := make([]models.BowlingEntry, 0, len(bowlers))
	for _, b := range bowlers {
		if i, ok := index[b.Name]; ok {
			out[i] = b
			continue
		}
		index[b.Name] = len(out)
		out = append(out, b)
	}
	return out
}
