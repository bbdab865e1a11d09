package batch

import (
	"github.com/ribkatam/10-K-filing-RFD-extractor/models"
)

// Job is one input CSV row to process.
type Job struct {
	Line       int // 1-based input row number, for log correlation
	CIK        string
	FilingYear string
}

// Result holds the outcome of a processed job.
type Result struct {
	Job        Job
	Extraction models.ExtractionResult
	FilingID   int64
	ErrorType  string
}

// Stats provides summary statistics for the run.
type Stats struct {
	Total            int            `json:"total"`
	Succeeded        int            `json:"succeeded"`
	Failed           int            `json:"failed"`
	SectionsFound    int            `json:"sections_found"`
	TotalTimeSeconds float64        `json:"total_time_seconds"`
	FailuresByType   map[string]int `json:"failures_by_type,omitempty"`
	TopTerms         []string       `json:"top_terms,omitempty"`
}
