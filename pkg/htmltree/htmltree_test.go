package htmltree

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) *Document {
	t.Helper()
	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func findByTag(doc *Document, tag string) *Element {
	for _, e := range doc.Elements() {
		if e.Tag == tag {
			return e
		}
	}
	return nil
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		tag  string
		want Kind
	}{
		{"h1", KindHeading},
		{"h4", KindHeading},
		{"p", KindParagraph},
		{"div", KindContainer},
		{"span", KindSpan},
		{"b", KindStrong},
		{"strong", KindStrong},
		{"i", KindItalic},
		{"em", KindItalic},
		{"u", KindUnderline},
		{"table", KindOther},
		{"a", KindOther},
	}
	for _, tt := range tests {
		if got := kindOf(tt.tag); got != tt.want {
			t.Errorf("kindOf(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestFlattenedText(t *testing.T) {
	doc := mustParse(t, `<div><p>Risk&nbsp;factors   may
		<b>adversely</b> affect us.</p></div>`)

	p := findByTag(doc, "p")
	if p == nil {
		t.Fatal("no <p> element found")
	}
	want := "Risk factors may adversely affect us."
	if got := p.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	// Cached call returns the same value.
	if got := p.Text(); got != want {
		t.Errorf("Text() second call = %q, want %q", got, want)
	}
}

func TestTextSkipsScriptAndStyle(t *testing.T) {
	doc := mustParse(t, `<body><script>var x = 1;</script><p>visible</p><style>p{color:red}</style></body>`)
	if got := doc.Text(); got != "visible" {
		t.Errorf("Document.Text() = %q, want %q", got, "visible")
	}
	for _, e := range doc.Elements() {
		if e.Tag == "script" || e.Tag == "style" {
			t.Errorf("arena contains %q element", e.Tag)
		}
	}
}

func TestParentAndDescendantRanges(t *testing.T) {
	doc := mustParse(t, `<div id="outer"><p>one <b>bold</b></p><p>two</p></div>`)

	outer := findByTag(doc, "div")
	b := findByTag(doc, "b")
	if outer == nil || b == nil {
		t.Fatal("missing expected elements")
	}

	if !outer.Contains(b) {
		t.Error("div should contain nested <b>")
	}
	if b.Contains(outer) {
		t.Error("leaf must not contain its ancestor")
	}

	// Ancestor chain of <b> runs nearest-first and includes the div.
	chain := doc.Ancestors(b)
	foundDiv := false
	for i, anc := range chain {
		if i > 0 && chain[i-1].Index < anc.Index {
			t.Errorf("ancestor chain not nearest-first at %d", i)
		}
		if anc == outer {
			foundDiv = true
		}
	}
	if !foundDiv {
		t.Error("ancestor chain of <b> missing the outer div")
	}

	// Direct children of the div are exactly the two <p> elements.
	kids := doc.Children(outer)
	if len(kids) != 2 || kids[0].Tag != "p" || kids[1].Tag != "p" {
		t.Errorf("Children(div) = %v elements, want two <p>", len(kids))
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		style string
		key   string
		want  string
	}{
		{"font-weight: bold", "font-weight", "bold"},
		{"Font-Weight : Bold ; color: red", "font-weight", "bold"},
		{"font-weight:700", "font-weight", "700"},
		{"font-style: Italic", "font-style", "italic"},
		{"text-decoration: underline solid", "text-decoration", "underlinesolid"},
		{"", "font-weight", ""},
		{"broken-no-colon", "broken-no-colon", ""},
	}
	for _, tt := range tests {
		got := parseStyle(tt.style)[tt.key]
		if got != tt.want {
			t.Errorf("parseStyle(%q)[%q] = %q, want %q", tt.style, tt.key, got, tt.want)
		}
	}
}

func TestEntityUnescaping(t *testing.T) {
	doc := mustParse(t, `<p>Item&nbsp;1A.&#32;Risk Factors</p>`)
	p := findByTag(doc, "p")
	if p == nil {
		t.Fatal("no <p> element found")
	}
	if got := p.Text(); got != "Item 1A. Risk Factors" {
		t.Errorf("Text() = %q, want entity-free text", got)
	}
}

func TestRenderFragment(t *testing.T) {
	doc := mustParse(t, `<div><p>first</p><p>second</p></div>`)
	var ps []*Element
	for _, e := range doc.Elements() {
		if e.Tag == "p" {
			ps = append(ps, e)
		}
	}
	frag := RenderFragment(ps)
	if !strings.HasPrefix(frag, "<div>\n") || !strings.HasSuffix(frag, "</div>") {
		t.Errorf("fragment not wrapped in div: %q", frag)
	}
	if !strings.Contains(frag, "<p>first</p>") || !strings.Contains(frag, "<p>second</p>") {
		t.Errorf("fragment missing member markup: %q", frag)
	}
	if RenderFragment(nil) != "" {
		t.Error("empty slice should render to empty string")
	}
}

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  a b \n\t c  ")
	if got != "a b c" {
		t.Errorf("NormalizeText = %q, want %q", got, "a b c")
	}
}
