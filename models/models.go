// Package models defines the row and result types shared by the batch
// pipeline, the HTTP server and the database layer.
package models

// BatchRow is one line of the batch CSV. The input carries cik and
// filingyear; the output repeats them with the dates and one extracted
// heading per row.
type BatchRow struct {
	CIK           string
	FilingYear    string
	FilingDate    string
	ReportingDate string
	Title         string
}

// ExtractionResult is the outcome of processing one filing.
type ExtractionResult struct {
	CIK           string   `json:"cik" yaml:"cik"`
	FilingYear    string   `json:"filing_year" yaml:"filing_year"`
	Variant       string   `json:"variant" yaml:"variant"`
	FilingDate    string   `json:"filing_date,omitempty" yaml:"filing_date,omitempty"`
	ReportingDate string   `json:"reporting_date,omitempty" yaml:"reporting_date,omitempty"`
	SectionFound  bool     `json:"section_found" yaml:"section_found"`
	Titles        []string `json:"titles,omitempty" yaml:"titles,omitempty"`
	Err           error    `json:"-" yaml:"-"`
}

// Rows expands the result into output CSV rows, one per heading. A
// filing with no headings still yields a single row with an empty title.
func (r *ExtractionResult) Rows() []BatchRow {
	base := BatchRow{
		CIK:           r.CIK,
		FilingYear:    r.FilingYear,
		FilingDate:    r.FilingDate,
		ReportingDate: r.ReportingDate,
	}
	if len(r.Titles) == 0 {
		return []BatchRow{base}
	}
	rows := make([]BatchRow, 0, len(r.Titles))
	for _, t := range r.Titles {
		row := base
		row.Title = t
		rows = append(rows, row)
	}
	return rows
}
