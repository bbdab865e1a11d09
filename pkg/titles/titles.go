// Package titles extracts risk-factor heading strings from a located
// section. Real filings mark their headings with one typographic convention
// (bold, italic or underline) but sprinkle the other two around for
// incidental emphasis, so candidates are collected per convention and the
// dominant one wins a majority vote at the end.
package titles

import (
	"strings"
	"unicode"

	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/htmltree"
)

// Emphasis is the typographic convention a candidate was found under.
type Emphasis int

const (
	Strong Emphasis = iota
	Italic
	Underline
)

func (e Emphasis) String() string {
	switch e {
	case Strong:
		return "strong"
	case Italic:
		return "italic"
	case Underline:
		return "underline"
	default:
		return "unknown"
	}
}

// Config holds the candidate filters. Titles shorter than the minimums are
// page furniture; longer than the maximum they are paragraphs that happen to
// be emphasized. The terminal-punctuation requirement is deliberate: a
// heading-like run-on sentence without a trailing ':' or '.' is excluded,
// which is a known source of missed titles.
type Config struct {
	MinChars int
	MinWords int
	MaxChars int
}

func DefaultConfig() Config {
	return Config{
		MinChars: 10,
		MinWords: 5,
		MaxChars: 1000,
	}
}

type candidate struct {
	text string
	emph Emphasis
}

// Classifier turns a section slice into an ordered list of unique titles.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Titles collects candidates from every element at every depth, de-duplicates
// them by exact normalized text (first occurrence wins), and applies the
// dominant-style vote. Output preserves first-seen order.
func (c *Classifier) Titles(doc *htmltree.Document, elements []*htmltree.Element) []string {
	seen := make(map[string]struct{})
	var cands []candidate

	add := func(text string, emph Emphasis) {
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		cands = append(cands, candidate{text: text, emph: emph})
	}

	for _, e := range elements {
		text := e.Text()

		switch e.Kind {
		case htmltree.KindStrong, htmltree.KindItalic, htmltree.KindUnderline:
			if c.accept(text) && !isUpper(text) {
				add(text, emphasisOfKind(e.Kind))
			}

		case htmltree.KindParagraph, htmltree.KindContainer, htmltree.KindSpan:
			if emph, ok := styleEmphasis(e); ok && c.accept(text) && !isUpper(text) {
				add(text, emph)
			}

			// Structural tags live in the arena even when slice assembly
			// dropped them for carrying the same text as their parent, the
			// usual shape of a heading wrapped alone in its paragraph. Walk
			// the subtree so those children still mark their titles.
			c.walkStructural(doc, e, add)

			// Malformed-markup recovery: the emphasis wraps the sentence
			// body while the closing period sits outside it as a sibling
			// text node. Re-terminate the child's text and filter it as a
			// candidate in its own right.
			if child := directItalicChild(doc, e); child != nil {
				fixed := strings.TrimRight(child.Text(), ". ") + "."
				if c.accept(fixed) && !isUpper(fixed) {
					add(fixed, Italic)
				}
			}

			// Aggregation: a title's emphasis may be split across several
			// styled descendants. Concatenate per style bucket and judge
			// each run as a candidate of its own.
			if run, emph, ok := c.aggregateRun(doc, e); ok {
				add(run, emph)
			}
		}
	}

	return keepDominant(cands)
}

// accept applies the length, word-count and terminal-punctuation filters.
func (c *Classifier) accept(text string) bool {
	if text == "" || len(text) > c.cfg.MaxChars || len(text) < c.cfg.MinChars {
		return false
	}
	if len(strings.Fields(text)) < c.cfg.MinWords {
		return false
	}
	last := text[len(text)-1]
	return last == ':' || last == '.'
}

// walkStructural visits e's arena descendants and offers every strong,
// italic or underline element as a candidate of its own. Each descendant is
// judged individually, matching how the headings appear in the markup.
func (c *Classifier) walkStructural(doc *htmltree.Document, e *htmltree.Element, add func(string, Emphasis)) {
	arena := doc.Elements()
	for i := e.Index + 1; i <= e.End; i++ {
		d := arena[i]
		switch d.Kind {
		case htmltree.KindStrong, htmltree.KindItalic, htmltree.KindUnderline:
			if text := d.Text(); c.accept(text) && !isUpper(text) {
				add(text, emphasisOfKind(d.Kind))
			}
		}
	}
}

// aggregateRun concatenates descendant text per style bucket and returns the
// first bucket (strong, italic, underline order) whose run passes the
// filters. Descendants come from the arena, not the de-duplicated slice, so
// styled children dropped by slice assembly still contribute text.
func (c *Classifier) aggregateRun(doc *htmltree.Document, e *htmltree.Element) (string, Emphasis, bool) {
	arena := doc.Elements()
	runs := map[Emphasis][]string{}
	for i := e.Index + 1; i <= e.End; i++ {
		d := arena[i]
		emph, ok := styleEmphasis(d)
		if !ok {
			continue
		}
		if text := d.Text(); text != "" {
			runs[emph] = append(runs[emph], text)
		}
	}
	for _, emph := range []Emphasis{Strong, Italic, Underline} {
		run := strings.Join(runs[emph], " ")
		if run != "" && c.accept(run) && !isUpper(run) {
			return run, emph, true
		}
	}
	return "", 0, false
}

// styleEmphasis inspects an element's own inline style. Bold wins over
// italic over underline when several are set.
func styleEmphasis(e *htmltree.Element) (Emphasis, bool) {
	weight := e.Style("font-weight")
	if strings.Contains(weight, "bold") || strings.Contains(weight, "700") {
		return Strong, true
	}
	if strings.Contains(e.Style("font-style"), "italic") {
		return Italic, true
	}
	if strings.Contains(e.Style("text-decoration"), "underline") {
		return Underline, true
	}
	return 0, false
}

// directItalicChild returns e's first direct italic child, or nil.
func directItalicChild(doc *htmltree.Document, e *htmltree.Element) *htmltree.Element {
	for _, kid := range doc.Children(e) {
		if kid.Kind == htmltree.KindItalic {
			return kid
		}
	}
	return nil
}

func emphasisOfKind(k htmltree.Kind) Emphasis {
	switch k {
	case htmltree.KindItalic:
		return Italic
	case htmltree.KindUnderline:
		return Underline
	default:
		return Strong
	}
}

// keepDominant counts candidates per emphasis and, when one convention
// strictly beats both others, drops everything else. A tie among the top
// conventions keeps all candidates.
func keepDominant(cands []candidate) []string {
	var counts [3]int
	for _, c := range cands {
		counts[c.emph]++
	}

	winner := Emphasis(-1)
	for _, e := range []Emphasis{Strong, Italic, Underline} {
		others := [3]int{}
		copy(others[:], counts[:])
		others[e] = -1
		if counts[e] > max3(others) {
			winner = e
			break
		}
	}

	out := make([]string, 0, len(cands))
	for _, c := range cands {
		if winner >= 0 && c.emph != winner {
			continue
		}
		out = append(out, c.text)
	}
	return out
}

func max3(v [3]int) int {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// isUpper reports whether text is fully upper-case (and contains at least
// one letter). All-caps emphasized runs are formatting artifacts, not
// titles.
func isUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
