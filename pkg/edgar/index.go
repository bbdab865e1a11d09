package edgar

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Filing identifies one 10-K submission located through the master index.
type Filing struct {
	CIK        string
	Year       string
	Variant    Variant
	Path       string // edgar/data/.../....txt submission path
	FilingDate string // m/d/yyyy
}

// indexEntry is one master.idx row of interest.
type indexEntry struct {
	formType  string
	dateFiled string
	path      string
}

// FindFiling scans the year's quarterly master indexes for the CIK's 10-K.
// Quarters are checked in the order most companies actually file (first and
// third before second and fourth). Requesting Amended returns the 10-K/A
// when one accompanies the 10-K, falling back to the original otherwise.
func (c *Client) FindFiling(ctx context.Context, cik, year string, variant Variant) (*Filing, error) {
	for _, quarter := range []int{1, 3, 2, 4} {
		indexURL := fmt.Sprintf("%s/Archives/edgar/full-index/%s/QTR%d/master.idx", c.baseURL, year, quarter)
		content, err := c.get(ctx, indexURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch master index: %w", err)
		}

		entries := scanMasterIndex(string(content), cik)
		if len(entries) == 0 {
			continue
		}

		entry := entries[0]
		if variant == Amended && len(entries) > 1 {
			entry = entries[1]
		}

		date, err := normalizeFilingDate(entry.dateFiled)
		if err != nil {
			return nil, fmt.Errorf("bad filing date %q: %w", entry.dateFiled, err)
		}

		return &Filing{
			CIK:        cik,
			Year:       year,
			Variant:    variant,
			Path:       entry.path,
			FilingDate: date,
		}, nil
	}
	return nil, fmt.Errorf("%w: cik %s year %s", ErrNotFound, cik, year)
}

// scanMasterIndex extracts the CIK's 10-K row and, when the line directly
// above it is a 10-K/A for the same CIK, the amended row as well. master.idx
// rows are pipe-delimited: cik|company|form|date|path.
func scanMasterIndex(content, cik string) []indexEntry {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) != 5 {
			continue
		}
		if strings.TrimSpace(parts[0]) != cik || strings.TrimSpace(parts[2]) != "10-K" {
			continue
		}

		entries := []indexEntry{{
			formType:  "10-K",
			dateFiled: strings.TrimSpace(parts[3]),
			path:      strings.TrimSpace(parts[4]),
		}}

		if i > 0 {
			prev := strings.Split(lines[i-1], "|")
			if len(prev) == 5 && strings.TrimSpace(prev[0]) == cik && strings.TrimSpace(prev[2]) == "10-K/A" {
				entries = append(entries, indexEntry{
					formType:  "10-K/A",
					dateFiled: strings.TrimSpace(prev[3]),
					path:      strings.TrimSpace(prev[4]),
				})
			}
		}
		return entries
	}
	return nil
}

// DocumentURL resolves the filing's .htm document through its index page:
// the tableFile listing names every submitted file, and the 10-K row with an
// .htm filename carries the document href.
func (c *Client) DocumentURL(ctx context.Context, filing *Filing) (string, error) {
	accessionBase := strings.TrimSuffix(strings.TrimSpace(filing.Path), ".txt")
	indexURL := fmt.Sprintf("%s/Archives/%s-index.htm", c.baseURL, accessionBase)

	body, err := c.get(ctx, indexURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch filing index page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to parse filing index page: %w", err)
	}

	table := doc.Find("table.tableFile").First()
	if table.Length() == 0 {
		return "", fmt.Errorf("no document table in index page for cik %s", filing.CIK)
	}

	var href string
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cols := row.Find("td")
		if cols.Length() < 4 {
			return true
		}
		description := strings.TrimSpace(cols.Eq(1).Text())
		fileName := strings.TrimSpace(cols.Eq(2).Text())
		fileType := strings.TrimSpace(cols.Eq(3).Text())
		if !strings.Contains(fileName, ".htm") {
			return true
		}
		if !strings.Contains(description, "10-K") && !strings.Contains(fileType, "10-K") {
			return true
		}
		href, _ = cols.Eq(2).Find("a").First().Attr("href")
		return href == ""
	})

	if href == "" {
		return "", fmt.Errorf("no 10-K document url found for cik %s", filing.CIK)
	}
	return c.baseURL + href, nil
}

// FetchDocument downloads the filing's 10-K HTML.
func (c *Client) FetchDocument(ctx context.Context, filing *Filing) (string, error) {
	docURL, err := c.DocumentURL(ctx, filing)
	if err != nil {
		return "", err
	}
	body, err := c.get(ctx, docURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch 10-K document: %w", err)
	}
	return string(body), nil
}

// normalizeFilingDate turns an index date (normally YYYY-MM-DD, but the
// archive has not always been consistent) into m/d/yyyy.
func normalizeFilingDate(raw string) (string, error) {
	t, err := dateparse.ParseStrict(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year()), nil
}
