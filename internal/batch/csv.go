package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ribkatam/10-K-filing-RFD-extractor/models"
)

// outputHeader matches the input column layout so outputs can be fed back in.
var outputHeader = []string{"cik", "filingyear", "filingdate", "reportingdate", "RFDTitle"}

// ReadJobs loads the input CSV. The header must name cik and filingyear
// columns; any further columns are ignored. Rows with an empty cik or
// filingyear are rejected rather than silently skipped.
func ReadJobs(path string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read input csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("input csv has no data rows")
	}

	cikCol, yearCol := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "cik":
			cikCol = i
		case "filingyear":
			yearCol = i
		}
	}
	if cikCol < 0 || yearCol < 0 {
		return nil, fmt.Errorf("input csv must have cik and filingyear columns, got %v", records[0])
	}

	jobs := make([]Job, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2 // header is line 1
		if cikCol >= len(rec) || yearCol >= len(rec) {
			return nil, fmt.Errorf("row %d is short: %v", line, rec)
		}
		cik := strings.TrimSpace(rec[cikCol])
		year := strings.TrimSpace(rec[yearCol])
		if cik == "" || year == "" {
			return nil, fmt.Errorf("row %d has empty cik or filingyear", line)
		}
		jobs = append(jobs, Job{Line: line, CIK: cik, FilingYear: year})
	}
	return jobs, nil
}

// WriteRows writes the output CSV, one row per extracted heading.
func WriteRows(path string, rows []models.BatchRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(outputHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.CIK, row.FilingYear, row.FilingDate, row.ReportingDate, row.Title}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
