package scorecard

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/markup"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

const genericDismissal = "out"

var (
	battingTabSelectors   = []string{"#tab_1", ".ckt_fltr_1", `div[data-id="ckt_fltr_1"]`}
	battingTableSelectors = []string{".ckt_batsmen", ".b_scard table"}
)

// protectedScorers is how many of the highest run-scorers are never marked
// out by wicket reconciliation.
const protectedScorers = 2

// ExtractBatting reads batting tables in page order. The first qualifying
// table belongs to the side batting first, the second to the side batting
// second. Tables for a side that is yet to bat are skipped.
func ExtractBatting(doc *markup.Document, teams map[models.TeamSlot]models.TeamState, roles Roles, logger *slog.Logger) map[models.TeamSlot][]models.BattingEntry {
	out := make(map[models.TeamSlot][]models.BattingEntry)

	var tables []*goquery.Selection
	if scope := doc.First(battingTabSelectors...); scope.Length() > 0 {
		tables = doc.Tables(scope, battingTableSelectors...)
	}
	if len(tables) == 0 {
		tables = doc.Tables(doc.Root(), battingTableSelectors...)
	}

	order := []models.TeamSlot{roles.BattingFirst, roles.BattingSecond}
	filled := 0

	for _, table := range tables {
		if filled == len(order) {
			break
		}
		if !isBattingTable(table) {
			continue
		}

		slot := order[filled]
		team := teams[slot]
		if models.IsYetToBat(team.Score) {
			logger.Debug("skipping batting table for side yet to bat", "team", slot)
			continue
		}

		entries := parseBattingRows(table)
		if len(entries) == 0 {
			continue
		}

		wickets, _ := strconv.Atoi(team.Wickets)
		if inferred, short := ReconcileDismissals(entries, wickets); inferred > 0 || short > 0 {
			logger.Info("reconciled dismissals against wicket count",
				"team", slot, "wickets", wickets, "inferred", inferred, "unresolved", short)
		}

		out[slot] = entries
		filled++
	}

	return out
}

func isBattingTable(table *goquery.Selection) bool {
	header := table.Find("tr.ckt_row_hdr").First()
	return header.Length() > 0 && strings.Contains(header.Text(), "BATTERS")
}

func parseBattingRows(table *goquery.Selection) []models.BattingEntry {
	var entries []models.BattingEntry

	table.Find("tr.ckt_row_item").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}

		nameCell := cells.First()
		name := markup.Text(markup.FirstIn(nameCell, "a"))
		if name == "" {
			name = markup.Text(nameCell)
		}
		if name == "" || isTotalsRow(name) {
			return
		}

		entries = append(entries, models.BattingEntry{
			Name:       name,
			Runs:       markup.Text(cells.Eq(1)),
			Balls:      markup.Text(cells.Eq(2)),
			Fours:      markup.Text(cells.Eq(3)),
			Sixes:      markup.Text(cells.Eq(4)),
			StrikeRate: markup.Text(cells.Eq(5)),
			Dismissal:  dismissalFor(row, nameCell),
		})
	})

	return entries
}

// dismissalFor combines three independent signals. Footnote text in the
// next row wins; the styling and strikethrough markers only say "out".
func dismissalFor(row, nameCell *goquery.Selection) string {
	if note, ok := footnoteDismissal(row); ok {
		return note
	}
	if styledOut(nameCell) || struckOut(nameCell) {
		return genericDismissal
	}
	return models.NotOut
}

func footnoteDismissal(row *goquery.Selection) (string, bool) {
	next := row.NextAllFiltered("tr").First()
	if next.Length() == 0 {
		return "", false
	}
	note := markup.Text(markup.FirstIn(next, ".ckt_row_subl", ".b_footnote"))
	if note == "" || strings.Contains(strings.ToLower(note), models.NotOut) {
		return "", false
	}
	return note, true
}

func styledOut(nameCell *goquery.Selection) bool {
	return nameCell.HasClass("bold") || nameCell.HasClass("ckt_dis")
}

func struckOut(nameCell *goquery.Selection) bool {
	return nameCell.Find("s, strike, del").Length() > 0
}

func isTotalsRow(name string) bool {
	lowered := strings.ToLower(name)
	return strings.Contains(lowered, "total") || strings.Contains(lowered, "extras")
}

// ReconcileDismissals marks additional batters out, in table order, until
// the number of out batters reaches wickets. The two highest run-scorers
// are never marked. It returns how many were marked and how many wickets
// remain unaccounted for.
func ReconcileDismissals(entries []models.BattingEntry, wickets int) (inferred, short int) {
	out := 0
	for _, e := range entries {
		if e.IsOut() {
			out++
		}
	}
	if wickets <= out {
		return 0, 0
	}

	protected := topScorers(entries, protectedScorers)
	for i := range entries {
		if out >= wickets {
			break
		}
		if entries[i].IsOut() || protected[i] {
			continue
		}
		entries[i].Dismissal = genericDismissal
		out++
		inferred++
	}

	if out < wickets {
		short = wickets - out
	}
	return inferred, short
}

func topScorers(entries []models.BattingEntry, n int) map[int]bool {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return runsOf(entries[idx[a]]) > runsOf(entries[idx[b]])
	})

	top := make(map[int]bool, n)
	for i := 0; i < n && i < len(idx); i++ {
		top[idx[i]] = true
	}
	return top
}

// runsOf reads a runs column such as "45" or "45*". Unreadable values rank as zero.
func runsOf(e models.BattingEntry) int {
	v, err := strconv.Atoi(strings.TrimRight(strings.TrimSpace(e.Runs), "*"))
	if err != nil {
		return 0
	}
	return v
}
