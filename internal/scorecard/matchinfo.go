package scorecard

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/markup"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

var (
	titleSelectors  = []string{".ckt_tournamentname", ".ckt_match_sbtl"}
	statusSelectors = []string{".ckt_match_statustxt"}
	dateSelectors   = []string{".ckt_live_status_text", ".b_floatR"}
	pomSelectors    = []string{".ckt_match_mom_player"}
	venueSelectors  = []string{".ckt_match_venue"}
)

// ExtractMatchInfo returns prior with every field found in doc overwritten.
// Fields absent from doc keep their prior value.
func ExtractMatchInfo(doc *markup.Document, prior models.MatchInfo) models.MatchInfo {
	info := prior

	set := func(dst *string, selectors []string) {
		if v, ok := doc.FirstText(selectors...); ok {
			*dst = v
		}
	}
	set(&info.Title, titleSelectors)
	set(&info.Status, statusSelectors)
	set(&info.PlayerOfMatch, pomSelectors)
	set(&info.Venue, venueSelectors)

	if date, ok := extractDate(doc); ok {
		info.Date = date
	}

	if models.StatusIndicatesResult(info.Status) {
		info.Result = info.Status
	}

	return info
}

// extractDate takes the first date-like element that is not a team score.
// Score badges share the b_floatR class with the date line.
func extractDate(doc *markup.Document) (string, bool) {
	for _, sel := range dateSelectors {
		var date string
		doc.Root().Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if markup.Contains(s, ".team_score") {
				return true
			}
			date = markup.Text(s)
			return date == ""
		})
		if date != "" {
			return date, true
		}
	}
	return "", false
}
