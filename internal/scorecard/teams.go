package scorecard

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/markup"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

const (
	fullInningsOvers = 20.0
	allOut           = 10
	wonClass         = "ckt_won"
)

// ExtractTeams reads the first two team sections in page order into team1
// and team2. The result is empty when the page has no team sections.
func ExtractTeams(doc *markup.Document) map[models.TeamSlot]models.TeamState {
	teams := make(map[models.TeamSlot]models.TeamState)

	sections := doc.Root().Find(".ckt_match_details")
	if sections.Length() > len(models.Slots) {
		sections = sections.Slice(0, len(models.Slots))
	}

	sections.Each(func(i int, section *goquery.Selection) {
		nameEl := markup.FirstIn(section, ".ckt_match_teamname")
		scoreEl := markup.FirstIn(section, ".team_score")
		if nameEl.Length() == 0 && scoreEl.Length() == 0 {
			return
		}

		team := models.TeamState{Name: markup.Text(nameEl)}
		if scoreEl.Length() > 0 {
			team = applyScore(team, markup.Text(scoreEl))
		}
		team.Won = nameEl.HasClass(wonClass) || scoreEl.HasClass(wonClass)

		teams[models.Slots[i]] = team
	})

	return teams
}

// ParseScore splits score text of the form "R/W (O)" into its parts.
// Wickets default to "0" and overs to "" when absent. A yet-to-bat marker
// yields the sentinel values.
func ParseScore(text string) (score, runs, wickets, overs string) {
	text = strings.TrimSpace(text)
	if models.IsYetToBat(text) {
		return models.YetToBat, models.YetToBat, "0", ""
	}

	scorePart, oversPart, _ := strings.Cut(text, "(")
	score = strings.TrimSpace(scorePart)
	overs = strings.TrimSpace(strings.ReplaceAll(oversPart, ")", ""))

	runs, wickets, _ = strings.Cut(score, "/")
	runs = strings.TrimSpace(runs)
	wickets = strings.TrimSpace(wickets)
	if wickets == "" {
		wickets = "0"
	}
	return score, runs, wickets, overs
}

// InningsComplete reports whether 20 overs have been bowled or ten wickets have fallen.
func InningsComplete(wickets, overs string) bool {
	if w, err := strconv.Atoi(wickets); err == nil && w == allOut {
		return true
	}
	return oversBowled(overs) >= fullInningsOvers
}

// oversBowled reads the leading number of an overs string such as "18.4",
// "20 ov" or "19.2/20". Unreadable input counts as zero.
func oversBowled(overs string) float64 {
	fields := strings.Fields(overs)
	if len(fields) == 0 {
		return 0
	}
	head, _, _ := strings.Cut(fields[0], "/")
	v, err := strconv.ParseFloat(head, 64)
	if err != nil {
		return 0
	}
	return v
}

func applyScore(team models.TeamState, text string) models.TeamState {
	team.Score, team.Runs, team.Wickets, team.Overs = ParseScore(text)
	if !models.IsYetToBat(team.Score) {
		team.InningsComplete = InningsComplete(team.Wickets, team.Overs)
	}
	return team
}
