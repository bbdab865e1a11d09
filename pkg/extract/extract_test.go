package extract

import (
	"strings"
	"testing"
)

var filler = strings.Repeat("Investors should weigh every factor described in this report carefully before deciding. ", 3)

const title1 = "Our operating results fluctuate from quarter to quarter."
const title2 = "We rely on a limited number of suppliers."

func sampleFiling() string {
	return `<html><body>
		<p>For the fiscal year ended September 28, 2019</p>
		<div>
			<p>Item 1A. Risk Factors</p>
			<p><b>` + title1 + `</b></p>
			<p>` + filler + `</p>
			<p><b>` + title2 + `</b></p>
			<p>` + filler + `</p>
		</div>
		<p>Item 1B. Unresolved Staff Comments</p>
	</body></html>`
}

func TestExtractFullDocument(t *testing.T) {
	res, err := Default().Extract(sampleFiling())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !res.Found {
		t.Fatal("section not found")
	}
	if res.ReportingDate != "9/28/2019" {
		t.Errorf("ReportingDate = %q, want 9/28/2019", res.ReportingDate)
	}
	if len(res.Titles) != 2 || res.Titles[0] != title1 || res.Titles[1] != title2 {
		t.Errorf("Titles = %v", res.Titles)
	}
	if !strings.Contains(res.SectionHTML, title1) {
		t.Error("section fragment missing first heading")
	}
	if strings.Contains(res.SectionHTML, "Unresolved Staff Comments") {
		t.Error("section fragment includes the next item")
	}
	if !strings.Contains(res.SectionText, "Investors should weigh") {
		t.Error("section text missing body content")
	}
}

func TestExtractSectionMissingStillDatesDocument(t *testing.T) {
	raw := `<html><body>
		<p>For the fiscal year ended December 31, 2020</p>
		<p>` + filler + `</p>
	</body></html>`

	res, err := Default().Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Found {
		t.Error("expected no section")
	}
	if res.ReportingDate != "12/31/2020" {
		t.Errorf("ReportingDate = %q, want 12/31/2020", res.ReportingDate)
	}
	if len(res.Titles) != 0 {
		t.Errorf("unexpected titles %v", res.Titles)
	}
}

func TestExtractNoDateNoSection(t *testing.T) {
	res, err := Default().Extract("<html><body><p>nothing here</p></body></html>")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Found || res.ReportingDate != "" {
		t.Errorf("unexpected result %+v", res)
	}
}
