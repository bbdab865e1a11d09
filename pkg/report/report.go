// Package report renders extraction results as YAML, Markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Summary is the per-filing result written next to the artifacts.
type Summary struct {
	CIK           string   `yaml:"cik"`
	FilingYear    string   `yaml:"filing_year"`
	Variant       string   `yaml:"variant"`
	FilingDate    string   `yaml:"filing_date,omitempty"`
	ReportingDate string   `yaml:"reporting_date,omitempty"`
	DocumentURL   string   `yaml:"document_url,omitempty"`
	SectionFound  bool     `yaml:"section_found"`
	Titles        []string `yaml:"titles,omitempty"`
	TopTerms      []string `yaml:"top_terms,omitempty"`
	Error         string   `yaml:"error,omitempty"`
}

// Markdown renders the summary as a Markdown document.
func (s *Summary) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Risk Factors: CIK %s (%s)\n\n", s.CIK, s.FilingYear)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Variant | %s |\n", s.Variant)
	if s.FilingDate != "" {
		fmt.Fprintf(&b, "| Filing date | %s |\n", s.FilingDate)
	}
	if s.ReportingDate != "" {
		fmt.Fprintf(&b, "| Reporting date | %s |\n", s.ReportingDate)
	}
	fmt.Fprintf(&b, "| Section found | %t |\n", s.SectionFound)

	if len(s.Titles) > 0 {
		b.WriteString("\n## Headings\n\n")
		for i, t := range s.Titles {
			fmt.Fprintf(&b, "%d. %s\n", i+1, t)
		}
	}

	if len(s.TopTerms) > 0 {
		b.WriteString("\n## Top terms\n\n")
		for _, term := range s.TopTerms {
			fmt.Fprintf(&b, "- %s\n", term)
		}
	}

	if s.Error != "" {
		fmt.Fprintf(&b, "\n## Error\n\n%s\n", s.Error)
	}

	return b.String()
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts the Markdown form of the summary to HTML.
func (s *Summary) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// stopwords are filtered out of term frequency counts. Includes filing
// boilerplate alongside ordinary function words.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "adverse": {}, "adversely": {}, "affect": {},
	"affected": {}, "all": {}, "also": {}, "an": {}, "and": {}, "any": {},
	"are": {}, "as": {}, "at": {},

	"be": {}, "been": {}, "business": {}, "but": {}, "by": {},

	"can": {}, "cannot": {}, "company": {}, "could": {},

	"do": {}, "does": {},

	"financial": {}, "for": {}, "from": {}, "future": {},

	"had": {}, "has": {}, "have": {}, "however": {},

	"if": {}, "in": {}, "including": {}, "is": {}, "it": {}, "its": {},

	"material": {}, "materially": {}, "may": {}, "more": {}, "must": {},

	"no": {}, "not": {},

	"of": {}, "on": {}, "operations": {}, "or": {}, "other": {}, "our": {},

	"result": {}, "results": {}, "risk": {}, "risks": {},

	"significant": {}, "significantly": {}, "some": {}, "such": {},

	"than": {}, "that": {}, "the": {}, "their": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "to": {},

	"us": {},

	"was": {}, "we": {}, "were": {}, "which": {}, "will": {}, "with": {},
	"would": {},

	"you": {}, "your": {},
}

// IsStopword reports whether a word is filtered from frequency counts.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// TermFrequency counts non-stopword terms in text, lowercased and
// stripped of surrounding punctuation.
func TermFrequency(text string) map[string]int {
	words := strings.Fields(strings.ToLower(text))
	frequencies := make(map[string]int)

	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return ('a' > r || r > 'z') && ('0' > r || r > '9')
		})
		if _, skip := stopwords[word]; skip || word == "" {
			continue
		}
		frequencies[word]++
	}

	return frequencies
}

// TopTerms returns the n most frequent terms as "word:count" strings.
// Ties break alphabetically so output is stable.
func TopTerms(frequencies map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	ss := make([]kv, 0, len(frequencies))
	for k, v := range frequencies {
		ss = append(ss, kv{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	terms := make([]string, limit)
	for i := 0; i < limit; i++ {
		terms[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}

	return terms
}
