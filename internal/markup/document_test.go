package markup

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestParseString_Empty(t *testing.T) {
	if _, err := ParseString("   \n"); err != ErrEmptyDocument {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestFirst_AlternativeOrder(t *testing.T) {
	doc := mustParse(t, `<div class="b">second</div><div class="a">first</div>`)

	text, ok := doc.FirstText(".missing", ".a", ".b")
	if !ok || text != "first" {
		t.Errorf("expected first alternative match 'first', got %q (ok=%v)", text, ok)
	}

	if _, ok := doc.FirstText(".missing"); ok {
		t.Error("expected no match")
	}
}

func TestTabOf(t *testing.T) {
	deep := `<div id="tab_2"><div><div><div><div><div><table id="far"></table></div></div></div></div></div></div>`
	doc := mustParse(t, `
		<div data-id="ckt_fltr_0"><div class="wrap"><table id="a"></table></div></div>
		<div id="tab_2"><table id="b"></table></div>
		<div id="other"><table id="c"></table></div>`+deep)

	tests := []struct {
		id   string
		want Tab
	}{
		{"a", TabFirst},
		{"b", TabSecond},
		{"c", TabNone},
		{"far", TabNone},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := doc.TabOf(doc.Root().Find("#" + tt.id))
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTables_ResolvesAndDedupes(t *testing.T) {
	doc := mustParse(t, `
		<div class="ckt_bowlers"><table id="one"></table></div>
		<div class="b_scard"><table id="two"></table></div>`)

	tables := doc.Tables(doc.Root(), ".ckt_bowlers", ".ckt_bowlers table", ".b_scard table")
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if id, _ := tables[0].Attr("id"); id != "one" {
		t.Errorf("expected first table 'one', got %q", id)
	}
	if id, _ := tables[1].Attr("id"); id != "two" {
		t.Errorf("expected second table 'two', got %q", id)
	}
}

func TestTabElement(t *testing.T) {
	doc := mustParse(t, `<section id="ckt_fltr_1"><p>by id</p></section><div data-id="ckt_fltr_0"><p>by data</p></div>`)

	if got := Text(doc.TabElement("ckt_fltr_0")); got != "by data" {
		t.Errorf("expected data-id lookup, got %q", got)
	}
	if got := Text(doc.TabElement("ckt_fltr_1")); got != "by id" {
		t.Errorf("expected id fallback, got %q", got)
	}
}

func TestText_CollapsesWhitespace(t *testing.T) {
	doc := mustParse(t, "<p>  Jasprit\u00a0\n  <span>Bumrah</span>  </p>")
	if got := Text(doc.Root().Find("p")); got != "Jasprit Bumrah" {
		t.Errorf("expected 'Jasprit Bumrah', got %q", got)
	}
}

func TestContains(t *testing.T) {
	doc := mustParse(t, `<div class="b_floatR team_score">180/4</div><div class="x"><span class="team_score"></span></div><div class="y"></div>`)
	root := doc.Root()

	if !Contains(root.Find(".b_floatR"), ".team_score") {
		t.Error("expected self match")
	}
	if !Contains(root.Find(".x"), ".team_score") {
		t.Error("expected descendant match")
	}
	if Contains(root.Find(".y"), ".team_score") {
		t.Error("expected no match")
	}
	if !strings.Contains(Text(root), "180/4") {
		t.Error("expected root text to include score")
	}
}
