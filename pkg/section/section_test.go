package section

import (
	"strings"
	"testing"

	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/htmltree"
)

func mustParse(t *testing.T, raw string) *htmltree.Document {
	t.Helper()
	doc, err := htmltree.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

const longParagraph = `Our business faces many risks and uncertainties that could
materially and adversely affect our results of operations, cash flows and the
trading price of our common stock in future reporting periods.`

func TestLocateSkipsTOCEntry(t *testing.T) {
	// The TOC hit matches the heading pattern and is short enough, but the
	// elements right after it are short entries and page numbers. The true
	// heading is followed by real content.
	raw := `<body>
		<div>
			<p>Item 1A. Risk Factors 14</p>
			<p>14</p>
			<p>Item 1B. Staff Comments 15</p>
			<p>15</p>
			<p>Item 2. Properties 16</p>
			<p>16</p>
			<p>Item 3. Legal 17</p>
			<p>17</p>
			<p>Item 4. Mine Safety 18</p>
			<p>18</p>
			<p>Item 5. Market 19</p>
			<p>19</p>
		</div>
		<div>
			<b>Item 1A. Risk Factors</b>
			<p>` + longParagraph + `</p>
			<p>More risk discussion follows in this part of the filing text.</p>
		</div>
	</body>`

	doc := mustParse(t, raw)
	loc := NewLocator(DefaultConfig())
	slice, ok := loc.Locate(doc)
	if !ok {
		t.Fatal("Locate() = not found, want section")
	}

	if got := slice.Elements[0].Text(); got != "Item 1A. Risk Factors" {
		t.Errorf("section starts at %q, want the true heading", got)
	}
	for _, e := range slice.Elements {
		if strings.Contains(e.Text(), "Properties 16") {
			t.Errorf("section slice contains TOC entry %q", e.Text())
		}
	}
}

func TestLocateEndsAtNextItemHeading(t *testing.T) {
	raw := `<body><div>
		<b>Item 1A. Risk Factors</b>
		<p>` + longParagraph + `</p>
		<p>A competitor entering our market, as discussed in Item 1B above, could
		reduce our revenue over the next several fiscal years materially.</p>
		<b>Item 1B. Unresolved Staff Comments</b>
		<p>None to report for the current fiscal year under this heading item.</p>
	</div></body>`

	doc := mustParse(t, raw)
	slice, ok := NewLocator(DefaultConfig()).Locate(doc)
	if !ok {
		t.Fatal("Locate() = not found, want section")
	}

	var texts []string
	for _, e := range slice.Elements {
		texts = append(texts, e.Text())
	}
	joined := strings.Join(texts, "\n")

	// The long cross-reference paragraph stays in; the real Item 1B heading
	// and everything after it stay out.
	if !strings.Contains(joined, "as discussed in Item 1B above") {
		t.Error("cross-reference paragraph wrongly treated as section end")
	}
	if strings.Contains(joined, "Unresolved Staff Comments") {
		t.Error("section includes the Item 1B heading")
	}
	if strings.Contains(joined, "None to report") {
		t.Error("section includes content after the Item 1B boundary")
	}
}

func TestLocateNotFound(t *testing.T) {
	raw := `<body><div>
		<h2>Business Overview</h2>
		<p>` + longParagraph + `</p>
	</div></body>`

	doc := mustParse(t, raw)
	slice, ok := NewLocator(DefaultConfig()).Locate(doc)
	if ok || slice != nil {
		t.Errorf("Locate() = (%v, %v), want (nil, false)", slice, ok)
	}
}

func TestLocateMidSentenceMentionIsNotAStart(t *testing.T) {
	raw := `<body><div>
		<p>You should carefully read Item 1A. Risk Factors of our prior annual
		report together with the other information included in this document.</p>
		<p>` + longParagraph + `</p>
	</div></body>`

	doc := mustParse(t, raw)
	if _, ok := NewLocator(DefaultConfig()).Locate(doc); ok {
		t.Error("mid-sentence mention accepted as section start")
	}
}

func TestLocateDegenerateHeadingOnly(t *testing.T) {
	// A heading with nothing after it is not a section. Lookahead finds no
	// content, so the start is rejected outright.
	raw := `<body><div><b>Item 1A. Risk Factors</b></div></body>`
	doc := mustParse(t, raw)
	if _, ok := NewLocator(DefaultConfig()).Locate(doc); ok {
		t.Error("bare heading accepted as a section")
	}
}

func TestSliceDeduplicatesNestedBlocks(t *testing.T) {
	// The div and its sole p carry identical flattened text; only one copy
	// may survive assembly.
	raw := `<body>
		<b>Item 1A. Risk Factors</b>
		<div><p>` + longParagraph + `</p></div>
	</body>`

	doc := mustParse(t, raw)
	slice, ok := NewLocator(DefaultConfig()).Locate(doc)
	if !ok {
		t.Fatal("Locate() = not found, want section")
	}

	seen := make(map[string]int)
	for _, e := range slice.Elements {
		seen[strings.ToLower(e.Text())]++
	}
	for text, n := range seen {
		if n > 1 {
			t.Errorf("duplicate block emitted %d times: %q", n, text)
		}
	}
}

func TestFragmentIsParseable(t *testing.T) {
	raw := `<body>
		<b>Item 1A. Risk Factors</b>
		<p>` + longParagraph + `</p>
	</body>`

	doc := mustParse(t, raw)
	slice, ok := NewLocator(DefaultConfig()).Locate(doc)
	if !ok {
		t.Fatal("Locate() = not found, want section")
	}

	frag := slice.Fragment()
	if frag == "" {
		t.Fatal("Fragment() is empty")
	}
	refried, err := htmltree.Parse(frag)
	if err != nil {
		t.Fatalf("fragment does not reparse: %v", err)
	}
	if !strings.Contains(refried.Text(), "Risk Factors") {
		t.Error("reparsed fragment lost the heading text")
	}
}

func TestLocateHeadingSplitByMarkup(t *testing.T) {
	// Label tokens separated by nbsp and nested spans still match once
	// flattened.
	raw := `<body>
		<p><span>Item&nbsp;</span><span>1A.</span> Risk Factors</p>
		<p>` + longParagraph + `</p>
	</body>`

	doc := mustParse(t, raw)
	slice, ok := NewLocator(DefaultConfig()).Locate(doc)
	if !ok {
		t.Fatal("Locate() = not found, want section")
	}
	if !strings.Contains(slice.Elements[0].Text(), "Item 1A.") {
		t.Errorf("start element text = %q", slice.Elements[0].Text())
	}
}

func TestConfigOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinContentWords = 3
	cfg.Lookahead = 2

	raw := `<body>
		<b>Item 1A. Risk Factors</b>
		<p>Short risk content here.</p>
	</body>`

	doc := mustParse(t, raw)
	if _, ok := NewLocator(cfg).Locate(doc); !ok {
		t.Error("relaxed thresholds should accept the short section")
	}
	if _, ok := NewLocator(DefaultConfig()).Locate(doc); ok {
		t.Error("default thresholds should reject the short section")
	}
}
