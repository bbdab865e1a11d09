package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ribkatam/10-K-filing-RFD-extractor/models"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadJobs(t *testing.T) {
	path := writeTempCSV(t, "cik,filingyear,filingdate,reportingdate,RFDTitle\n320193,2019,,,\n789019,2020,,,\n")

	jobs, err := ReadJobs(path)
	if err != nil {
		t.Fatalf("ReadJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].CIK != "320193" || jobs[0].FilingYear != "2019" || jobs[0].Line != 2 {
		t.Errorf("first job = %+v", jobs[0])
	}
	if jobs[1].CIK != "789019" || jobs[1].Line != 3 {
		t.Errorf("second job = %+v", jobs[1])
	}
}

func TestReadJobsTrimsWhitespace(t *testing.T) {
	path := writeTempCSV(t, "cik,filingyear\n 320193 ,2019\n")

	jobs, err := ReadJobs(path)
	if err != nil {
		t.Fatalf("ReadJobs: %v", err)
	}
	if jobs[0].CIK != "320193" {
		t.Errorf("CIK = %q, want trimmed value", jobs[0].CIK)
	}
}

func TestReadJobsMissingColumns(t *testing.T) {
	path := writeTempCSV(t, "company,year\nApple,2019\n")

	if _, err := ReadJobs(path); err == nil {
		t.Error("expected error for missing cik/filingyear columns")
	}
}

func TestReadJobsEmptyField(t *testing.T) {
	path := writeTempCSV(t, "cik,filingyear\n320193,\n")

	if _, err := ReadJobs(path); err == nil {
		t.Error("expected error for empty filingyear")
	}
}

func TestReadJobsNoDataRows(t *testing.T) {
	path := writeTempCSV(t, "cik,filingyear\n")

	if _, err := ReadJobs(path); err == nil {
		t.Error("expected error for header-only input")
	}
}

func TestWriteRowsRoundTrip(t *testing.T) {
	rows := []models.BatchRow{
		{CIK: "320193", FilingYear: "2019", FilingDate: "10/31/2019", ReportingDate: "9/28/2019", Title: "We face risks, including litigation."},
		{CIK: "789019", FilingYear: "2020", FilingDate: "7/30/2020", ReportingDate: "6/30/2020"},
	}

	path := filepath.Join(t.TempDir(), "output.csv")
	if err := WriteRows(path, rows); err != nil {
		t.Fatalf("WriteRows: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), data)
	}
	if lines[0] != "cik,filingyear,filingdate,reportingdate,RFDTitle" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"We face risks, including litigation."`) {
		t.Errorf("title with comma not quoted: %q", lines[1])
	}

	// The output must read back as valid input.
	jobs, err := ReadJobs(path)
	if err != nil {
		t.Fatalf("ReadJobs on output: %v", err)
	}
	if len(jobs) != 2 || jobs[0].CIK != "320193" {
		t.Errorf("round trip jobs = %+v", jobs)
	}
}
