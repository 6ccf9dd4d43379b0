package scorecard

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

func team(name, score string) models.TeamState {
	t := models.TeamState{Name: name}
	if score != "" {
		t = applyScore(t, score)
	}
	return t
}

func TestResolveRoles(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		teams       map[models.TeamSlot]models.TeamState
		wantFirst   models.TeamSlot
		wantBowling models.TeamSlot
	}{
		{
			name:   "second team yet to bat is bowling",
			status: "Mumbai Indians chose to bat",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: team("Mumbai Indians", "120/3 (12.4)"),
				models.Team2: team("Chennai Super Kings", "Yet to bat"),
			},
			wantFirst:   models.Team1,
			wantBowling: models.Team2,
		},
		{
			name:   "first team yet to bat is bowling",
			status: "Chennai Super Kings elected to field",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: team("Mumbai Indians", "Yet to bat"),
				models.Team2: team("Chennai Super Kings", "40/0 (4.0)"),
			},
			wantFirst:   models.Team2,
			wantBowling: models.Team1,
		},
		{
			name:   "completed match processes all",
			status: "Mumbai Indians won by 12 runs",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: team("Mumbai Indians", "185/6 (20.0)"),
				models.Team2: team("Chennai Super Kings", "173/9 (20.0)"),
			},
			wantFirst:   models.Team1,
			wantBowling: "",
		},
		{
			name:   "won flag processes all",
			status: "",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: {Name: "A", Score: "150/4", Won: true},
				models.Team2: {Name: "B", Score: "149/9"},
			},
			wantFirst:   models.Team1,
			wantBowling: "",
		},
		{
			name:   "first innings complete means first side bowls",
			status: "Chennai Super Kings need 60 runs in 30 balls",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: team("Mumbai Indians", "185/6 (20.0)"),
				models.Team2: team("Chennai Super Kings", "126/3 (15.0)"),
			},
			wantFirst:   models.Team1,
			wantBowling: models.Team1,
		},
		{
			name:   "second innings complete means second side bowls",
			status: "Mumbai Indians need 40 runs in 18 balls",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: team("Mumbai Indians", "146/5 (17.0)"),
				models.Team2: team("Chennai Super Kings", "185/10 (19.2)"),
			},
			wantFirst:   models.Team1,
			wantBowling: models.Team2,
		},
		{
			name:   "neither innings complete is unresolved",
			status: "Live",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: team("Mumbai Indians", "99/2 (11.0)"),
				models.Team2: team("Chennai Super Kings", "12/0 (1.0)"),
			},
			wantFirst:   models.Team1,
			wantBowling: "",
		},
		{
			name:   "both innings complete without a result is unresolved",
			status: "Scores level, super over to follow",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: team("Mumbai Indians", "185/6 (20.0)"),
				models.Team2: team("Chennai Super Kings", "185/8 (20.0)"),
			},
			wantFirst:   models.Team1,
			wantBowling: "",
		},
		{
			name:   "completion ignores batting order",
			status: "Chennai Super Kings elected to field",
			teams: map[models.TeamSlot]models.TeamState{
				models.Team1: team("Mumbai Indians", "190/4 (20.0)"),
				models.Team2: team("Chennai Super Kings", "60/1 (7.0)"),
			},
			wantFirst:   models.Team2,
			wantBowling: models.Team1,
		},
		{
			name:        "nothing known",
			status:      "",
			teams:       map[models.TeamSlot]models.TeamState{},
			wantFirst:   models.Team1,
			wantBowling: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := ResolveRoles(tt.status, tt.teams)
			if roles.BattingFirst != tt.wantFirst {
				t.Errorf("expected batting first %q, got %q", tt.wantFirst, roles.BattingFirst)
			}
			if roles.BattingSecond != roles.BattingFirst.Opponent() {
				t.Errorf("expected batting second to be opponent of %q, got %q", roles.BattingFirst, roles.BattingSecond)
			}
			if roles.Bowling != tt.wantBowling {
				t.Errorf("expected bowling %q, got %q", tt.wantBowling, roles.Bowling)
			}
		})
	}
}
