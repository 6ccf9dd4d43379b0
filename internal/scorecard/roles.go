package scorecard

import (
	"strings"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// Roles is the batting order and the side currently bowling.
// An empty Bowling means no decision was reached and every bowling table
// should be processed.
type Roles struct {
	BattingFirst  models.TeamSlot `json:"batting_first"`
	BattingSecond models.TeamSlot `json:"batting_second"`
	Bowling       models.TeamSlot `json:"bowling,omitempty"`
}

func defaultRoles() Roles {
	return Roles{BattingFirst: models.Team1, BattingSecond: models.Team2}
}

// ResolveRoles derives batting order and current bowling side from the
// status line and team states.
func ResolveRoles(status string, teams map[models.TeamSlot]models.TeamState) Roles {
	roles := defaultRoles()
	lowered := strings.ToLower(status)

	if second := strings.ToLower(teams[models.Team2].Name); second != "" &&
		strings.Contains(lowered, second) && strings.Contains(lowered, "elected to field") {
		roles.BattingFirst, roles.BattingSecond = models.Team2, models.Team1
	}

	roles.Bowling = currentBowling(status, teams)
	return roles
}

// currentBowling picks the side in the field. When exactly one innings is
// complete that side bowls; anything less certain yields "".
func currentBowling(status string, teams map[models.TeamSlot]models.TeamState) models.TeamSlot {
	t1Waiting := models.IsYetToBat(teams[models.Team1].Score)
	t2Waiting := models.IsYetToBat(teams[models.Team2].Score)

	switch {
	case t1Waiting != t2Waiting:
		if t2Waiting {
			return models.Team2
		}
		return models.Team1
	case matchFinished(status, teams):
		return ""
	}

	t1Done := teams[models.Team1].InningsComplete
	t2Done := teams[models.Team2].InningsComplete
	switch {
	case t1Done && !t2Done:
		return models.Team1
	case t2Done && !t1Done:
		return models.Team2
	}
	return ""
}

func matchFinished(status string, teams map[models.TeamSlot]models.TeamState) bool {
	if models.StatusIndicatesResult(status) {
		return true
	}
	for _, t := range teams {
		if t.Won {
			return true
		}
	}
	return false
}
