package report

import (
	"strings"
	"testing"
)

func TestMarkdownListsHeadingsInOrder(t *testing.T) {
	s := Summary{
		CIK:           "320193",
		FilingYear:    "2019",
		Variant:       "original",
		ReportingDate: "9/28/2019",
		SectionFound:  true,
		Titles: []string{
			"Global markets are highly competitive.",
			"We depend on component suppliers.",
		},
	}

	md := s.Markdown()
	first := strings.Index(md, "1. Global markets are highly competitive.")
	second := strings.Index(md, "2. We depend on component suppliers.")
	if first == -1 || second == -1 {
		t.Fatalf("headings missing from markdown:\n%s", md)
	}
	if first > second {
		t.Error("headings rendered out of order")
	}
	if !strings.Contains(md, "| Reporting date | 9/28/2019 |") {
		t.Errorf("reporting date missing:\n%s", md)
	}
}

func TestRenderHTML(t *testing.T) {
	s := Summary{CIK: "789019", FilingYear: "2020", Variant: "amended", SectionFound: false}

	html, err := s.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("expected a heading element:\n%s", html)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected the field table to render:\n%s", html)
	}
}

func TestTermFrequencySkipsStopwords(t *testing.T) {
	freq := TermFrequency("The pandemic disrupted our supply chain, and the supply chain may not recover.")

	if freq["supply"] != 2 || freq["chain"] != 2 {
		t.Errorf("expected supply/chain counted twice, got %v", freq)
	}
	for _, w := range []string{"the", "our", "and", "may", "not"} {
		if _, ok := freq[w]; ok {
			t.Errorf("stopword %q not filtered", w)
		}
	}
}

func TestTermFrequencyStripsPunctuation(t *testing.T) {
	freq := TermFrequency("Cybersecurity, cybersecurity; (cybersecurity)")
	if freq["cybersecurity"] != 3 {
		t.Errorf("punctuation variants not merged: %v", freq)
	}
}

func TestTopTerms(t *testing.T) {
	freq := map[string]int{"tariffs": 5, "litigation": 3, "pandemic": 5, "currency": 1}

	got := TopTerms(freq, 3)
	want := []string{"pandemic:5", "tariffs:5", "litigation:3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTopTermsLimitExceedsSize(t *testing.T) {
	got := TopTerms(map[string]int{"tariffs": 1}, 10)
	if len(got) != 1 {
		t.Errorf("expected 1 term, got %v", got)
	}
}
