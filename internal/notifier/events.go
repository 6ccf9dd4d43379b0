package notifier

import (
	"fmt"
	"strconv"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// Event is one alertable change in a match. Key is unique within a match.
type Event struct {
	Key  string
	Text string
}

// DeriveEvents lists the events a state represents: the latest wicket of
// each batting side, completed innings, and the result.
func DeriveEvents(state *models.MatchState) []Event {
	var events []Event
	title := state.MatchInfo.Title

	for _, slot := range models.Slots {
		team := state.Teams[slot]
		if !team.HasBatted() {
			continue
		}

		if n, err := strconv.Atoi(team.Wickets); err == nil && n > 0 {
			text := fmt.Sprintf("WICKET! %s %s (%s)", team.Name, team.Score, team.Overs)
			if b, ok := lastDismissed(state.BattingStats[slot]); ok {
				text += fmt.Sprintf("\n%s %s (%s) %s", b.Name, b.Runs, b.Balls, b.Dismissal)
			}
			events = append(events, Event{Key: fmt.Sprintf("%s:wkt:%d", slot, n), Text: withTitle(title, text)})
		}

		if team.InningsComplete {
			text := fmt.Sprintf("Innings complete: %s %s (%s)", team.Name, team.Score, team.Overs)
			events = append(events, Event{Key: fmt.Sprintf("%s:innings", slot), Text: withTitle(title, text)})
		}
	}

	if state.IsComplete() {
		result := state.MatchInfo.Result
		if result == "" {
			result = state.MatchInfo.Status
		}
		text := "Result: " + result
		if pom := state.MatchInfo.PlayerOfMatch; pom != "" {
			text += "\nPlayer of the match: " + pom
		}
		events = append(events, Event{Key: "result", Text: withTitle(title, text)})
	}
	return events
}

func lastDismissed(entries []models.BattingEntry) (models.BattingEntry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].IsOut() {
			return entries[i], true
		}
	}
	return models.BattingEntry{}, false
}

func withTitle(title, text string) string {
	if title == "" {
		return text
	}
	return title + "\n" + text
}
