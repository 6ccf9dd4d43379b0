package scorecard

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/markup"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// Page fixtures mirror the live scorecard markup closely enough for the
// extractors: team sections, tabbed batting and bowling cards, commentary.

type teamFixture struct {
	Name  string
	Score string
	Won   bool
}

type batterFixture struct {
	Name      string
	Runs      string
	Footnote  string
	NameClass string
	Struck    bool
}

type bowlerFixture struct {
	Name    string
	Overs   string
	Maidens string
	Runs    string
	Wickets string
	Economy string
}

type bowlingCard struct {
	TabDataID string // "" places the card outside any tab
	Bowlers   []bowlerFixture
}

type pageFixture struct {
	Title      string
	Status     string
	Date       string
	Venue      string
	POM        string
	Teams      []teamFixture
	Batting    [][]batterFixture
	Bowling    []bowlingCard
	Commentary []string
}

func (p pageFixture) HTML() string {
	var b strings.Builder
	b.WriteString("<html><body>")
	writeOpt(&b, "ckt_tournamentname", p.Title)
	writeOpt(&b, "ckt_match_statustxt", p.Status)
	writeOpt(&b, "ckt_live_status_text", p.Date)
	writeOpt(&b, "ckt_match_venue", p.Venue)
	writeOpt(&b, "ckt_match_mom_player", p.POM)

	for _, t := range p.Teams {
		won := ""
		if t.Won {
			won = " ckt_won"
		}
		fmt.Fprintf(&b, `<div class="b_clearfix ckt_match_details"><div class="ckt_match_teamname%s">%s</div>`, won, t.Name)
		if t.Score != "" {
			fmt.Fprintf(&b, `<div class="b_floatR team_score">%s</div>`, t.Score)
		}
		b.WriteString("</div>")
	}

	if len(p.Batting) > 0 {
		b.WriteString(`<div id="tab_1">`)
		for _, card := range p.Batting {
			b.WriteString(battingTable(card))
		}
		b.WriteString("</div>")
	}

	for _, card := range p.Bowling {
		if card.TabDataID != "" {
			fmt.Fprintf(&b, `<div data-id="%s">`, card.TabDataID)
		}
		b.WriteString(`<div class="ckt_bowlers">`)
		b.WriteString(bowlingTable(card.Bowlers))
		b.WriteString("</div>")
		if card.TabDataID != "" {
			b.WriteString("</div>")
		}
	}

	if len(p.Commentary) > 0 {
		b.WriteString(`<div class="ckt_gamecomm">`)
		for _, c := range p.Commentary {
			b.WriteString(c)
		}
		b.WriteString("</div>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func writeOpt(b *strings.Builder, class, text string) {
	if text != "" {
		fmt.Fprintf(b, `<div class="%s">%s</div>`, class, text)
	}
}

func battingTable(rows []batterFixture) string {
	var b strings.Builder
	b.WriteString(`<div class="b_scard"><table>`)
	b.WriteString(`<tr class="ckt_row_hdr"><td>BATTERS</td><td>R</td><td>B</td><td>4s</td><td>6s</td><td>SR</td></tr>`)
	for _, r := range rows {
		name := fmt.Sprintf("<a>%s</a>", r.Name)
		if r.Struck {
			name = fmt.Sprintf("<del>%s</del>", r.Name)
		}
		fmt.Fprintf(&b, `<tr class="ckt_row_item"><td class="%s">%s</td><td>%s</td><td>20</td><td>2</td><td>1</td><td>150.00</td></tr>`,
			r.NameClass, name, r.Runs)
		if r.Footnote != "" {
			fmt.Fprintf(&b, `<tr class="ckt_row_sub"><td colspan="6"><div class="b_footnote">%s</div></td></tr>`, r.Footnote)
		}
	}
	b.WriteString(`<tr class="ckt_row_item"><td>Extras</td><td>8</td><td></td><td></td><td></td><td></td></tr>`)
	b.WriteString("</table></div>")
	return b.String()
}

func bowlingTable(rows []bowlerFixture) string {
	var b strings.Builder
	b.WriteString(`<table><tr class="ckt_row_hdr"><td>BOWLERS</td><td>O</td><td>M</td><td>R</td><td>W</td><td>ECO</td></tr>`)
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr class="ckt_row_item"><td><a>%s</a></td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			r.Name, r.Overs, r.Maidens, r.Runs, r.Wickets, r.Economy)
	}
	b.WriteString("</table>")
	return b.String()
}

func ballComment(over, result, text string) string {
	return fmt.Sprintf(`<div class="ckt_commentary_item"><div class="ckt_comm_ball"><span class="ckt_overs">%s</span><span class="ckt_ball">%s</span></div><div class="ckt_comm_txt">%s</div></div>`,
		over, result, text)
}

func generalComment(stamp, text string) string {
	return fmt.Sprintf(`<div class="ckt_commentary_item"><div class="ckt_comm_time"><b>%s</b> %s</div></div>`, stamp, text)
}

// firstInningsPage is a live first innings: team1 has batted 20 overs,
// team2 is yet to bat, team2's bowling card is under the first tab.
func firstInningsPage() pageFixture {
	return pageFixture{
		Title:  "Indian Premier League 2025",
		Status: "Innings break",
		Date:   "Sat, 12 Apr",
		Venue:  "Wankhede Stadium, Mumbai",
		Teams: []teamFixture{
			{Name: "Mumbai Indians", Score: "185/6 (20.0)"},
			{Name: "Chennai Super Kings", Score: "Yet to bat"},
		},
		Batting: [][]batterFixture{{
			{Name: "Rohit Sharma", Runs: "68", Footnote: "c Jadeja b Pathirana"},
			{Name: "Ishan Kishan", Runs: "12", Footnote: "b Chahar"},
			{Name: "Suryakumar Yadav", Runs: "4"},
			{Name: "Tilak Varma", Runs: "2"},
			{Name: "Hardik Pandya (c", Runs: "55", Footnote: "lbw b Jadeja"},
			{Name: "Tim David", Runs: "30", Footnote: "run out (Dhoni)"},
		}},
		Bowling: []bowlingCard{{
			TabDataID: "ckt_fltr_0",
			Bowlers: []bowlerFixture{
				{Name: "Deepak Chahar", Overs: "4", Maidens: "0", Runs: "32", Wickets: "1", Economy: "8.00"},
				{Name: "Matheesha Pathirana", Overs: "4", Maidens: "0", Runs: "41", Wickets: "1", Economy: "10.25"},
				{Name: "Ravindra Jadeja", Overs: "4", Maidens: "0", Runs: "28", Wickets: "1", Economy: "7.00"},
			},
		}},
		Commentary: []string{
			ballComment("19.6", "4", "Driven through cover for four"),
			generalComment("21:14", "Innings break"),
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEngine() *Engine {
	e := NewEngine(quietLogger())
	e.now = func() time.Time { return time.Date(2025, 4, 12, 21, 15, 0, 0, time.UTC) }
	return e
}

func parseFixture(t *testing.T, src string) *markup.Document {
	t.Helper()
	doc, err := markup.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func applyFixture(t *testing.T, e *Engine, state *models.MatchState, src string) Report {
	t.Helper()
	report, err := e.Apply(state, src)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return report
}
