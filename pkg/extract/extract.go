// Package extract runs the full pipeline on one document: parse the HTML,
// locate the risk factors section, classify its headings and normalize the
// reporting date.
package extract

import (
	"errors"
	"strings"

	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/dates"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/htmltree"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/section"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/titles"
)

// Result is the outcome of extracting one document.
type Result struct {
	Found         bool
	SectionHTML   string
	SectionText   string
	Titles        []string
	ReportingDate string
}

// Extractor ties the section locator and title classifier together.
type Extractor struct {
	locator    *section.Locator
	classifier *titles.Classifier
}

func New(sectionCfg section.Config, titleCfg titles.Config) *Extractor {
	return &Extractor{
		locator:    section.NewLocator(sectionCfg),
		classifier: titles.NewClassifier(titleCfg),
	}
}

// Default returns an Extractor with the standard heuristics.
func Default() *Extractor {
	return New(section.DefaultConfig(), titles.DefaultConfig())
}

// Extract processes a raw 10-K document. The reporting date is taken from
// the whole document, so it is filled in even when the section is missing.
// Returns htmltree.ErrMalformed when the input cannot be parsed at all.
func (x *Extractor) Extract(rawHTML string) (*Result, error) {
	doc, err := htmltree.Parse(rawHTML)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if date, err := dates.Normalize(doc.Text()); err == nil {
		res.ReportingDate = date
	} else if !errors.Is(err, dates.ErrNotFound) {
		return nil, err
	}

	slice, found := x.locator.Locate(doc)
	if !found {
		return res, nil
	}

	res.Found = true
	res.SectionHTML = slice.Fragment()
	res.SectionText = sliceText(slice)
	res.Titles = x.classifier.Titles(doc, slice.Elements)
	return res, nil
}

func sliceText(s *section.Slice) string {
	var parts []string
	for _, e := range s.Elements {
		if t := e.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
