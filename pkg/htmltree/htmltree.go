// Package htmltree builds a flat, document-ordered view over parsed filing
// markup. Elements live in a pre-order arena with parent indices, so ancestor
// walks are index chases and descendant membership is a range check.
package htmltree

import (
	"errors"
	"fmt"
	stdhtml "html"
	"strings"

	"golang.org/x/net/html"
)

// ErrMalformed indicates the markup could not be parsed into a tree at all.
// Distinct from a section or date simply being absent in a parsed document.
var ErrMalformed = errors.New("htmltree: malformed markup")

// Kind classifies an element's tag into the vocabulary the heuristics care
// about. Everything else is KindOther.
type Kind int

const (
	KindOther Kind = iota
	KindHeading
	KindParagraph
	KindContainer
	KindSpan
	KindStrong
	KindItalic
	KindUnderline
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindContainer:
		return "container"
	case KindSpan:
		return "span"
	case KindStrong:
		return "strong"
	case KindItalic:
		return "italic"
	case KindUnderline:
		return "underline"
	default:
		return "other"
	}
}

// kindOf maps a tag name to its Kind.
func kindOf(tag string) Kind {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return KindHeading
	case "p":
		return KindParagraph
	case "div", "section", "article", "blockquote", "center":
		return KindContainer
	case "span", "font":
		return KindSpan
	case "b", "strong":
		return KindStrong
	case "i", "em":
		return KindItalic
	case "u":
		return KindUnderline
	default:
		return KindOther
	}
}

// Element is one markup element in document order. The owning Document holds
// all elements; an Element is only valid while its Document is alive.
type Element struct {
	Index  int // position in the pre-order arena
	Parent int // arena index of the parent element, -1 at the top
	End    int // arena index of the last descendant (== Index for leaves)
	Kind   Kind
	Tag    string

	node   *html.Node
	styles map[string]string
	text   string
	textOK bool
}

// Text returns the element's flattened text: all text nodes beneath it,
// whitespace-collapsed with non-breaking spaces treated as spaces. Cached
// after the first call.
func (e *Element) Text() string {
	if !e.textOK {
		e.text = flattenText(e.node)
		e.textOK = true
	}
	return e.text
}

// Style returns the normalized value of an inline style property ("" when
// absent). Keys are lowercased; values are lowercased with all whitespace
// stripped, so "Font-Weight: Bold" is reachable as Style("font-weight") ==
// "bold".
func (e *Element) Style(key string) string {
	return e.styles[key]
}

// Contains reports whether other is a descendant of e.
func (e *Element) Contains(other *Element) bool {
	return other.Index > e.Index && other.Index <= e.End
}

// HTML renders the element's subtree back to markup.
func (e *Element) HTML() string {
	var sb strings.Builder
	if err := html.Render(&sb, e.node); err != nil {
		return ""
	}
	return sb.String()
}

// Document owns an ordered element arena built from one markup document.
type Document struct {
	elements []*Element
	root     *html.Node
	text     string
	textOK   bool
}

// Parse builds a Document from raw markup. HTML entities are unescaped first
// so heading patterns see "Item 1A" rather than "Item&nbsp;1A" split across
// entities. A nil error does not promise the document was well formed, only
// that a tree could be built; anything less wraps ErrMalformed.
func Parse(raw string) (*Document, error) {
	raw = stdhtml.UnescapeString(raw)
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &Document{root: root}
	doc.build(root, -1)
	if len(doc.elements) == 0 {
		return nil, fmt.Errorf("%w: no elements", ErrMalformed)
	}
	return doc, nil
}

// build appends n's element subtree to the arena in pre-order.
func (d *Document) build(n *html.Node, parent int) {
	idx := parent
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style":
			return
		}
		el := &Element{
			Index:  len(d.elements),
			Parent: parent,
			Kind:   kindOf(n.Data),
			Tag:    n.Data,
			node:   n,
			styles: parseStyle(attr(n, "style")),
		}
		d.elements = append(d.elements, el)
		idx = el.Index
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.build(c, idx)
	}
	if idx >= 0 && n.Type == html.ElementNode {
		d.elements[idx].End = len(d.elements) - 1
	}
}

// Elements returns the arena in document order. Callers must not mutate it.
func (d *Document) Elements() []*Element {
	return d.elements
}

// ParentOf returns e's parent element, or nil at the top of the tree.
func (d *Document) ParentOf(e *Element) *Element {
	if e.Parent < 0 {
		return nil
	}
	return d.elements[e.Parent]
}

// Ancestors returns e's ancestor chain from nearest to furthest.
func (d *Document) Ancestors(e *Element) []*Element {
	var chain []*Element
	for p := d.ParentOf(e); p != nil; p = d.ParentOf(p) {
		chain = append(chain, p)
	}
	return chain
}

// Children returns e's direct child elements in document order.
func (d *Document) Children(e *Element) []*Element {
	var kids []*Element
	for i := e.Index + 1; i <= e.End; i++ {
		if d.elements[i].Parent == e.Index {
			kids = append(kids, d.elements[i])
		}
	}
	return kids
}

// Text returns the whole document's flattened text, cached.
func (d *Document) Text() string {
	if !d.textOK {
		d.text = flattenText(d.root)
		d.textOK = true
	}
	return d.text
}

// RenderFragment reconstructs a minimal markup fragment from a sequence of
// elements, one per line inside a wrapping div.
func RenderFragment(elements []*Element) string {
	if len(elements) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<div>\n")
	for _, e := range elements {
		sb.WriteString(e.HTML())
		sb.WriteString("\n")
	}
	sb.WriteString("</div>")
	return sb.String()
}

// NormalizeText collapses all runs of whitespace (including non-breaking
// spaces) in s to single spaces and trims the edges.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

func flattenText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteString(" ")
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return NormalizeText(sb.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// parseStyle turns an inline style attribute into a normalized property map.
func parseStyle(style string) map[string]string {
	if style == "" {
		return nil
	}
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(k))
		val := strings.ToLower(strings.Join(strings.Fields(v), ""))
		if key != "" && val != "" {
			props[key] = val
		}
	}
	return props
}
