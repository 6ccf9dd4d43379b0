package scorecard

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/markup"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

var (
	bowlingTabIDs = []string{"ckt_fltr_0", "ckt_fltr_1", "tab_1"}

	bowlingTableSelectors = []string{
		".ckt_table_card .ckt_bowlers table",
		".ckt_bowlers table",
		".ckt_bowlers .b_scard table",
		".ckt_bowlers",
		".b_scard table",
		`table:contains("BOWLERS")`,
	}

	// scanKeywords admit any table in the last-resort page scan;
	// headerKeywords admit a first row as the header.
	scanKeywords   = []string{"bowl", "overs", "maidens", "economy"}
	headerKeywords = []string{"BOWLERS", "BOWLING", "OVERS", "ECON"}

	oversHeaders   = []string{"O", "OVERS", "OV"}
	wicketsHeaders = []string{"W", "WKTS", "WICKETS"}
	runsHeaders    = []string{"R", "RUNS", "RNS"}

	leadingJunk  = regexp.MustCompile(`^\s*[^a-zA-Z]+`)
	trailingJunk = regexp.MustCompile(`[^a-zA-Z)]+\s*$`)
)

// ExtractBowling locates bowling tables, assigns each to the side that was
// bowling, and upserts rows by bowler name. Both slots are always present in
// the result. When no table yields a bowler for either side, each side that
// batted has its opponent credited with one inferred aggregate entry.
func ExtractBowling(
	doc *markup.Document,
	teams map[models.TeamSlot]models.TeamState,
	batting map[models.TeamSlot][]models.BattingEntry,
	roles Roles,
	logger *slog.Logger,
) map[models.TeamSlot][]models.BowlingEntry {
	out := models.NewBowlingStats()

	positional := 0
	for _, table := range locateBowlingTables(doc) {
		header, ok := bowlingHeader(table)
		if !ok {
			continue
		}

		slot := bowlingSlot(doc.TabOf(table), positional)
		if roles.Bowling != "" && slot != roles.Bowling {
			logger.Debug("skipping bowling table for side not bowling", "team", slot, "bowling", roles.Bowling)
			continue
		}

		rows := bowlingRows(table, header)
		for _, entry := range rows {
			out[slot] = upsertBowler(out[slot], entry)
		}
		if len(out[slot]) > 0 {
			positional++
		}
	}

	if len(out[models.Team1]) > 0 || len(out[models.Team2]) > 0 {
		return out
	}
	for _, slot := range models.Slots {
		team, ok := teams[slot]
		if !ok || !team.HasBatted() || len(batting[slot]) == 0 {
			continue
		}
		bowlers := slot.Opponent()
		logger.Info("no bowling rows found, inferring aggregate", "team", bowlers)
		out[bowlers] = []models.BowlingEntry{placeholderBowling(team)}
	}

	return out
}

// locateBowlingTables tries the innings tabs, then the known selectors over
// the whole page, then any table mentioning bowling keywords.
func locateBowlingTables(doc *markup.Document) []*goquery.Selection {
	seen := make(map[*html.Node]bool)
	var tables []*goquery.Selection
	collect := func(found []*goquery.Selection) {
		for _, t := range found {
			if node := t.Get(0); !seen[node] {
				seen[node] = true
				tables = append(tables, t)
			}
		}
	}

	for _, id := range bowlingTabIDs {
		if tab := doc.TabElement(id); tab.Length() > 0 {
			collect(doc.Tables(tab, bowlingTableSelectors...))
		}
	}
	if len(tables) > 0 {
		return tables
	}

	collect(doc.Tables(doc.Root(), bowlingTableSelectors...))
	if len(tables) > 0 {
		return tables
	}

	doc.Root().Find("table").Each(func(_ int, t *goquery.Selection) {
		text := strings.ToLower(t.Text())
		for _, kw := range scanKeywords {
			if strings.Contains(text, kw) {
				collect([]*goquery.Selection{t})
				return
			}
		}
	})
	return tables
}

// bowlingHeader returns the header row of a bowling table. A ckt_row_hdr row
// qualifies when its first cell says BOWLERS or when it has overs, wickets
// and runs columns. Otherwise a first row mentioning bowling keywords is
// accepted.
func bowlingHeader(table *goquery.Selection) (*goquery.Selection, bool) {
	if header := table.Find("tr.ckt_row_hdr").First(); header.Length() > 0 {
		var labels []string
		header.Find("td, th").Each(func(_ int, c *goquery.Selection) {
			labels = append(labels, strings.ToUpper(markup.Text(c)))
		})
		if len(labels) > 0 && (strings.Contains(labels[0], "BOWLERS") ||
			(hasAny(labels, oversHeaders) && hasAny(labels, wicketsHeaders) && hasAny(labels, runsHeaders))) {
			return header, true
		}
	}

	first := table.Find("tr").First()
	if first.Length() == 0 {
		return nil, false
	}
	text := strings.ToUpper(first.Text())
	for _, kw := range headerKeywords {
		if strings.Contains(text, kw) {
			return first, true
		}
	}
	return nil, false
}

func hasAny(labels, want []string) bool {
	for _, l := range labels {
		for _, w := range want {
			if l == w {
				return true
			}
		}
	}
	return false
}

// bowlingSlot maps a table to the side that bowled in it. The first innings
// tab holds team2's bowling. Without tab context the first table seen is
// team2's and later ones team1's.
func bowlingSlot(tab markup.Tab, positional int) models.TeamSlot {
	switch tab {
	case markup.TabFirst:
		return models.Team2
	case markup.TabSecond:
		return models.Team1
	}
	if positional == 0 {
		return models.Team2
	}
	return models.Team1
}

func bowlingRows(table, header *goquery.Selection) []models.BowlingEntry {
	rows := table.Find("tr.ckt_row_item")
	if rows.Length() == 0 {
		rows = table.Find("tr").NotSelection(header)
	}

	var entries []models.BowlingEntry
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}

		nameCell := cells.First()
		raw := markup.Text(markup.FirstIn(nameCell, "a"))
		if raw == "" {
			raw = markup.Text(nameCell)
		}
		name := CleanBowlerName(raw)
		if name == "" || isTotalsRow(name) {
			return
		}

		entries = append(entries, models.BowlingEntry{
			Name:    name,
			Overs:   markup.Text(cells.Eq(1)),
			Maidens: markup.Text(cells.Eq(2)),
			Runs:    markup.Text(cells.Eq(3)),
			Wickets: markup.Text(cells.Eq(4)),
			Economy: markup.Text(cells.Eq(5)),
		})
	})
	return entries
}

// CleanBowlerName normalizes a bowler name cell: non-breaking spaces become
// spaces, an unclosed "(" is closed, and non-letter runs at either end are
// dropped (a trailing ")" is kept).
func CleanBowlerName(raw string) string {
	name := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	if strings.Contains(name, "(") && !strings.Contains(name, ")") {
		name += ")"
	}
	name = leadingJunk.ReplaceAllString(name, "")
	name = trailingJunk.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

func upsertBowler(list []models.BowlingEntry, entry models.BowlingEntry) []models.BowlingEntry {
	for i := range list {
		if list[i].Name == entry.Name {
			list[i] = entry
			return list
		}
	}
	return append(list, entry)
}

func placeholderBowling(batting models.TeamState) models.BowlingEntry {
	return models.BowlingEntry{
		Name:     models.PlaceholderBowler,
		Overs:    orDefault(batting.Overs, "0.0"),
		Maidens:  "0",
		Runs:     orDefault(batting.Runs, "0"),
		Wickets:  orDefault(batting.Wickets, "0"),
		Economy:  "0.00",
		Inferred: true,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
