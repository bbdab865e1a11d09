package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// RunReport is the whole-run summary written beside the output CSV.
type RunReport struct {
	RunID          string
	InputPath      string
	OutputPath     string
	Total          int
	Succeeded      int
	Failed         int
	SectionsFound  int
	ElapsedSeconds float64
	FailuresByType map[string]int
	TopTerms       []string
}

// Markdown renders the run report as a Markdown document.
func (r *RunReport) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Extraction run %s\n\n", r.RunID)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Input | %s |\n", r.InputPath)
	fmt.Fprintf(&b, "| Output | %s |\n", r.OutputPath)
	fmt.Fprintf(&b, "| Filings | %d |\n", r.Total)
	fmt.Fprintf(&b, "| Succeeded | %d |\n", r.Succeeded)
	fmt.Fprintf(&b, "| Failed | %d |\n", r.Failed)
	fmt.Fprintf(&b, "| Sections found | %d |\n", r.SectionsFound)
	fmt.Fprintf(&b, "| Elapsed | %.1fs |\n", r.ElapsedSeconds)

	if len(r.FailuresByType) > 0 {
		b.WriteString("\n## Failures by type\n\n")
		kinds := make([]string, 0, len(r.FailuresByType))
		for kind := range r.FailuresByType {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(&b, "- %s: %d\n", kind, r.FailuresByType[kind])
		}
	}

	if len(r.TopTerms) > 0 {
		b.WriteString("\n## Top title terms\n\n")
		for _, term := range r.TopTerms {
			fmt.Fprintf(&b, "- %s\n", term)
		}
	}

	return b.String()
}

// RenderHTML converts the Markdown form of the run report to HTML.
func (r *RunReport) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
