// Package markup wraps a parsed scorecard page and exposes the query
// primitives the extractors share: alternative selectors, table collection
// and innings-tab context.
package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrEmptyDocument is returned when the input has no content at all.
var ErrEmptyDocument = errors.New("empty document")

// maxTabDepth bounds how far up the tree a table looks for its innings tab.
const maxTabDepth = 5

// Tab is the innings tab a node sits under.
type Tab int

const (
	TabNone Tab = iota
	// TabFirst is the first scorecard tab (tab_1 / ckt_fltr_0).
	TabFirst
	// TabSecond is the second scorecard tab (tab_2 / ckt_fltr_1).
	TabSecond
)

func (t Tab) String() string {
	switch t {
	case TabFirst:
		return "first"
	case TabSecond:
		return "second"
	default:
		return "none"
	}
}

var tabIDs = map[string]Tab{
	"tab_1":      TabFirst,
	"ckt_fltr_0": TabFirst,
	"tab_2":      TabSecond,
	"ckt_fltr_1": TabSecond,
}

// Document is a parsed page plus the tab index computed at parse time.
type Document struct {
	doc  *goquery.Document
	tabs map[*html.Node]Tab
}

// Parse reads and indexes a document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	d := &Document{doc: doc, tabs: make(map[*html.Node]Tab)}
	d.indexTabs()
	return d, nil
}

// ParseString parses markup held in memory.
func ParseString(s string) (*Document, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyDocument
	}
	return Parse(strings.NewReader(s))
}

func (d *Document) indexTabs() {
	d.doc.Find("[id], [data-id]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"id", "data-id"} {
			if tab, ok := tabIDs[s.AttrOr(attr, "")]; ok {
				d.tabs[s.Get(0)] = tab
				return
			}
		}
	})
}

// Root returns the whole document as a selection.
func (d *Document) Root() *goquery.Selection {
	return d.doc.Selection
}

// First returns the first element matching the first selector alternative
// that matches anything. The returned selection is empty when none match.
func (d *Document) First(selectors ...string) *goquery.Selection {
	return FirstIn(d.doc.Selection, selectors...)
}

// FirstIn is First scoped to a selection.
func FirstIn(scope *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if found := scope.Find(sel); found.Length() > 0 {
			return found.First()
		}
	}
	return scope.Slice(0, 0)
}

// FirstText returns the collapsed text of First(selectors...). ok is false
// when nothing matched or the text is blank.
func (d *Document) FirstText(selectors ...string) (string, bool) {
	found := d.First(selectors...)
	if found.Length() == 0 {
		return "", false
	}
	text := Text(found)
	return text, text != ""
}

// TabElement finds a tab container by data-id, falling back to element id.
func (d *Document) TabElement(id string) *goquery.Selection {
	return d.First(fmt.Sprintf(`div[data-id=%q]`, id), "#"+id)
}

// TabOf reports the innings tab enclosing s, looking at s itself and up to
// five ancestors.
func (d *Document) TabOf(s *goquery.Selection) Tab {
	if s.Length() == 0 {
		return TabNone
	}
	node := s.Get(0)
	for depth := 0; node != nil && depth <= maxTabDepth; depth++ {
		if tab, ok := d.tabs[node]; ok {
			return tab
		}
		node = node.Parent
	}
	return TabNone
}

// Tables collects <table> elements within scope for each selector in order.
// A candidate that is not itself a table contributes the tables it contains.
// Each table appears once, at its first position.
func (d *Document) Tables(scope *goquery.Selection, selectors ...string) []*goquery.Selection {
	seen := make(map[*html.Node]bool)
	var out []*goquery.Selection
	add := func(s *goquery.Selection) {
		node := s.Get(0)
		if seen[node] {
			return
		}
		seen[node] = true
		out = append(out, s)
	}
	for _, sel := range selectors {
		scope.Find(sel).Each(func(_ int, candidate *goquery.Selection) {
			if goquery.NodeName(candidate) == "table" {
				add(candidate)
				return
			}
			candidate.Find("table").Each(func(_ int, inner *goquery.Selection) {
				add(inner)
			})
		})
	}
	return out
}

// Text returns the element text with runs of whitespace, including
// non-breaking spaces, collapsed to one space.
func Text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s.Text(), "\u00a0", " ")), " ")
}

// Contains reports whether s is, or has a descendant, matching selector.
func Contains(s *goquery.Selection, selector string) bool {
	return s.Is(selector) || s.Find(selector).Length() > 0
}

// SelfOrFirst returns s when it matches selector, otherwise its first
// matching descendant.
func SelfOrFirst(s *goquery.Selection, selector string) *goquery.Selection {
	if s.Is(selector) {
		return s.First()
	}
	return s.Find(selector).First()
}
