package scorecard

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/markup"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// MaxCommentary bounds how many commentary items are read per update.
const MaxCommentary = 20

// ExtractCommentary reads the most recent commentary items in page order.
// ok is false when the page carries no commentary items at all.
func ExtractCommentary(doc *markup.Document) (entries []models.CommentaryEntry, ok bool) {
	section := doc.First("#tab_2", ".ckt_gamecomm")
	if section.Length() == 0 {
		section = doc.Root()
	}

	items := section.Find(".ckt_commentary_item")
	if items.Length() == 0 {
		items = doc.Root().Find(".ckt_comm_time, .ckt_comm_ball")
	}
	if items.Length() == 0 {
		return nil, false
	}
	if items.Length() > MaxCommentary {
		items = items.Slice(0, MaxCommentary)
	}

	entries = []models.CommentaryEntry{}
	items.Each(func(_ int, item *goquery.Selection) {
		if entry, ok := classifyComment(item); ok {
			entries = append(entries, entry)
		}
	})
	return entries, true
}

func classifyComment(item *goquery.Selection) (models.CommentaryEntry, bool) {
	if timeEl := markup.SelfOrFirst(item, ".ckt_comm_time"); timeEl.Length() > 0 {
		stamp := markup.Text(timeEl.Find("b").First())
		body := timeEl.Clone()
		body.Find("b").Remove()
		return models.GeneralNote(stamp, markup.Text(body)), true
	}

	if ballEl := markup.SelfOrFirst(item, ".ckt_comm_ball"); ballEl.Length() > 0 {
		return models.BallEvent(
			markup.Text(markup.FirstIn(ballEl, ".ckt_overs")),
			markup.Text(markup.FirstIn(ballEl, ".ckt_ball")),
			markup.Text(markup.FirstIn(item, ".ckt_comm_txt")),
		), true
	}

	return models.CommentaryEntry{}, false
}
