// Package section locates the "Item 1A. Risk Factors" disclosure inside a
// parsed filing and slices out its element range. The heuristics have to
// survive tables of contents, cross-references inside running text, and
// headings broken up by markup, so both boundaries are guarded by word-count
// thresholds rather than trusted on pattern match alone.
package section

import (
	"regexp"
	"strings"

	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/htmltree"
)

// Config holds the locator heuristics. The zero value is unusable; start
// from DefaultConfig and override individual thresholds in tests.
type Config struct {
	// StartPattern matches the target section heading in flattened text.
	StartPattern *regexp.Regexp
	// EndPattern matches the next section's heading.
	EndPattern *regexp.Regexp
	// MaxHeadingWords is the longest a text can be (in words) for an
	// embedded pattern hit to still count as a heading rather than a
	// sentence mentioning the section.
	MaxHeadingWords int
	// Lookahead is how many following elements are inspected for real
	// content when deciding whether a heading hit is a TOC entry.
	Lookahead int
	// MinContentWords is the word count an element must exceed to count as
	// content, and the count a heading hit must stay under to count as the
	// section end.
	MinContentWords int
}

// DefaultConfig returns the Item 1A / Item 1B heuristics. Interior
// whitespace and non-breaking spaces between the label tokens are allowed;
// embedded tags are already gone from flattened text.
func DefaultConfig() Config {
	return Config{
		StartPattern:    regexp.MustCompile(`(?i)item[\s\x{00a0}]*1a\.?`),
		EndPattern:      regexp.MustCompile(`(?i)item[\s\x{00a0}]*1b\.?`),
		MaxHeadingWords: 5,
		Lookahead:       10,
		MinContentWords: 10,
	}
}

// Slice is a read-only view over the located section: its elements in
// document order plus the smallest common ancestor covering them. It does
// not outlive the source Document.
type Slice struct {
	Root     *htmltree.Element
	Elements []*htmltree.Element
}

// Fragment reconstructs the section as a minimal markup fragment.
func (s *Slice) Fragment() string {
	return htmltree.RenderFragment(s.Elements)
}

// Locator finds the target section's boundaries in a document.
type Locator struct {
	cfg Config
}

func NewLocator(cfg Config) *Locator {
	return &Locator{cfg: cfg}
}

// Locate returns the section slice and true, or nil and false when the
// section cannot be confidently located. False is a legitimate empty result
// (the caller may retry against an amended filing), never a failure.
func (l *Locator) Locate(doc *htmltree.Document) (*Slice, bool) {
	elements := doc.Elements()

	start := l.findStart(elements)
	if start < 0 {
		return nil, false
	}

	end := l.findEnd(elements, start)

	members := l.assemble(doc, elements[start:end])
	if len(members) == 0 {
		return nil, false
	}

	root := commonAncestor(doc, elements[start], elements[end-1])
	return &Slice{Root: root, Elements: members}, true
}

// findStart returns the arena index of the first element accepted as the
// section start, or -1. A TOC line matches the heading pattern too, but the
// elements right after it are other short entries or page numbers, so a hit
// only counts when real content follows within the lookahead window.
func (l *Locator) findStart(elements []*htmltree.Element) int {
	for i, e := range elements {
		text := e.Text()
		if !l.isHeadingHit(text, l.cfg.StartPattern, l.cfg.MaxHeadingWords) {
			continue
		}
		if l.hasContentAhead(elements, i) {
			return i
		}
	}
	return -1
}

// isHeadingHit reports whether text reads as a section heading: either the
// pattern covers the whole text, or it appears inside a short text. Long
// texts containing the pattern are running sentences, not headings.
func (l *Locator) isHeadingHit(text string, pat *regexp.Regexp, maxWords int) bool {
	loc := pat.FindStringIndex(text)
	if loc == nil {
		return false
	}
	if loc[0] == 0 && loc[1] == len(text) {
		return true
	}
	return wordCount(text) <= maxWords
}

func (l *Locator) hasContentAhead(elements []*htmltree.Element, from int) bool {
	limit := from + l.cfg.Lookahead
	if limit > len(elements) {
		limit = len(elements)
	}
	for _, e := range elements[from:limit] {
		text := e.Text()
		if text == "" {
			continue
		}
		if wordCount(text) > l.cfg.MinContentWords {
			return true
		}
	}
	return false
}

// findEnd scans from the start element for the next section's heading and
// returns the exclusive arena end index. A short text matching the pattern
// is the real heading; a long one is a cross-reference inside a paragraph
// and does not terminate the section. With no boundary hit the section runs
// to the end of the document.
func (l *Locator) findEnd(elements []*htmltree.Element, start int) int {
	for i := start + 1; i < len(elements); i++ {
		text := elements[i].Text()
		if l.cfg.EndPattern.MatchString(text) && wordCount(text) < l.cfg.MinContentWords {
			return i
		}
	}
	return len(elements)
}

// assemble walks the identified range in document order and drops elements
// whose normalized text is empty or already emitted. A parent and its sole
// child carry identical flattened text, so without the dedup the fragment
// would repeat every such block. A range reduced to the bare heading is a
// degenerate section and yields nothing.
func (l *Locator) assemble(doc *htmltree.Document, rng []*htmltree.Element) []*htmltree.Element {
	if len(rng) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(rng))
	out := make([]*htmltree.Element, 0, len(rng))
	for _, e := range rng {
		key := strings.ToLower(e.Text())
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

// commonAncestor returns the nearest element that is an ancestor of both
// first and last, walking first's chain nearest-first. Falls back to first's
// parent when the chains never meet (a single shared root always exists in
// practice, since html.Parse roots everything under <html>).
func commonAncestor(doc *htmltree.Document, first, last *htmltree.Element) *htmltree.Element {
	for _, anc := range doc.Ancestors(first) {
		if anc == last || anc.Contains(last) {
			return anc
		}
	}
	return doc.ParentOf(first)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
