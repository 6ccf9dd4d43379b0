package scorecard

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

func TestExtractMatchInfo(t *testing.T) {
	src := `<div class="ckt_match_sbtl">Qualifier 1</div>
		<div class="b_floatR team_score">200/3</div>
		<div class="b_floatR">Tue, 20 May</div>
		<div class="ckt_match_statustxt">Punjab Kings won by 8 wickets</div>
		<div class="ckt_match_mom_player">Shreyas Iyer</div>`
	prior := models.MatchInfo{MatchID: "9", TournamentID: "8307", Venue: "Eden Gardens", Title: "old"}

	info := ExtractMatchInfo(parseFixture(t, src), prior)

	want := models.MatchInfo{
		Title:         "Qualifier 1",
		Venue:         "Eden Gardens",
		Date:          "Tue, 20 May",
		Status:        "Punjab Kings won by 8 wickets",
		Result:        "Punjab Kings won by 8 wickets",
		PlayerOfMatch: "Shreyas Iyer",
		MatchID:       "9",
		TournamentID:  "8307",
	}
	if info != want {
		t.Errorf("expected %+v, got %+v", want, info)
	}
}

func TestExtractMatchInfo_LiveHasNoResult(t *testing.T) {
	src := `<div class="ckt_match_statustxt">Kolkata Knight Riders need 41 runs in 24 balls</div>`

	info := ExtractMatchInfo(parseFixture(t, src), models.MatchInfo{})
	if info.Result != "" {
		t.Errorf("expected no result while live, got %q", info.Result)
	}
}
