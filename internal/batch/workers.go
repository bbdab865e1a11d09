package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ribkatam/10-K-filing-RFD-extractor/models"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/artifacts"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/db"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/edgar"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/extract"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/report"
)

// Pipeline processes filings concurrently: find the submission in the
// archive, fetch the document, extract the section and record the results.
// Manager and DB are optional; without them nothing is persisted beyond the
// output rows.
type Pipeline struct {
	Logger    *slog.Logger
	Client    *edgar.Client
	Extractor *extract.Extractor
	Manager   *artifacts.Manager
	DB        *db.DB
	RunID     string
	Workers   int
}

// Run processes all jobs through the worker pool. Results come back in
// input order. The error reports only that at least one job failed; per-job
// errors stay on the results.
func (p *Pipeline) Run(ctx context.Context, jobList []Job) ([]Result, Stats, error) {
	start := time.Now()
	workers := p.Workers
	if workers <= 0 {
		workers = 4
	}

	p.Logger.Info("starting batch run", "run_id", p.RunID, "jobs", len(jobList), "workers", workers)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(jobList))
	results := make(chan Result, len(jobList))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range jobs {
				p.Logger.Info("worker started job", "worker_id", id, "cik", job.CIK, "filing_year", job.FilingYear)
				results <- p.process(ctx, job)
			}
		}(w)
	}

	for _, job := range jobList {
		jobs <- job
	}
	close(jobs)

	wg.Wait()
	close(results)
	p.Logger.Info("all workers finished", "run_id", p.RunID)

	all := make([]Result, 0, len(jobList))
	stats := Stats{Total: len(jobList), FailuresByType: map[string]int{}}
	freq := map[string]int{}
	var runErr error
	for result := range results {
		all = append(all, result)
		if result.Extraction.Err != nil {
			stats.Failed++
			stats.FailuresByType[result.ErrorType]++
			runErr = fmt.Errorf("one or more jobs failed")
			continue
		}
		stats.Succeeded++
		if result.Extraction.SectionFound {
			stats.SectionsFound++
		}
		for _, t := range result.Extraction.Titles {
			for w, c := range report.TermFrequency(t) {
				freq[w] += c
			}
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Job.Line < all[j].Job.Line })

	stats.TotalTimeSeconds = time.Since(start).Seconds()
	stats.TopTerms = report.TopTerms(freq, 25)
	return all, stats, runErr
}

// Rows flattens results into output CSV rows, preserving input order.
func Rows(results []Result) []models.BatchRow {
	var rows []models.BatchRow
	for i := range results {
		rows = append(rows, results[i].Extraction.Rows()...)
	}
	return rows
}

func (p *Pipeline) process(ctx context.Context, job Job) Result {
	result := Result{Job: job}
	result.Extraction = models.ExtractionResult{
		CIK:        job.CIK,
		FilingYear: job.FilingYear,
		Variant:    string(edgar.Original),
	}

	filing, err := p.Client.FindFiling(ctx, job.CIK, job.FilingYear, edgar.Original)
	if err != nil {
		p.Logger.Error("filing not found in index", "cik", job.CIK, "filing_year", job.FilingYear, "error", err)
		result.Extraction.Err = err
		result.ErrorType = "index_error"
		return result
	}

	extraction, err := p.runFiling(ctx, filing, &result)
	if err != nil {
		return result
	}

	// The section is sometimes only present in the amended submission.
	// Retry there once, and keep the amended document's dates when it is
	// actually a different submission.
	if !extraction.Found {
		amended, err := p.Client.FindFiling(ctx, job.CIK, job.FilingYear, edgar.Amended)
		if err == nil && amended.Path != filing.Path {
			p.Logger.Info("section missing, retrying amended filing", "cik", job.CIK, "filing_year", job.FilingYear)
			result.Extraction.Variant = string(edgar.Amended)
			filing = amended
			extraction, err = p.runFiling(ctx, filing, &result)
			if err != nil {
				return result
			}
		}
	}

	result.Extraction.FilingDate = filing.FilingDate
	result.Extraction.ReportingDate = extraction.ReportingDate
	result.Extraction.SectionFound = extraction.Found
	result.Extraction.Titles = extraction.Titles

	p.persist(filing, &result, extraction)

	p.Logger.Info("job finished",
		"cik", job.CIK,
		"filing_year", job.FilingYear,
		"variant", result.Extraction.Variant,
		"section_found", extraction.Found,
		"titles", len(extraction.Titles))
	return result
}

// runFiling fetches one submission's document and extracts from it. Fetch
// and parse failures land on the result and come back as an error so process
// stops there.
func (p *Pipeline) runFiling(ctx context.Context, filing *edgar.Filing, result *Result) (*extract.Result, error) {
	filingID := p.recordFiling(filing, result)

	rawHTML, docURL, err := p.fetchDocument(ctx, filing, filingID)
	if err != nil {
		p.Logger.Error("failed to fetch document", "cik", filing.CIK, "url", docURL, "error", err)
		result.Extraction.Err = err
		result.ErrorType = "fetch_error"
		p.recordAccess(filingID, docURL, 0, "fetch_error", false)
		return nil, err
	}
	p.recordAccess(filingID, docURL, 200, "", true)

	extraction, err := p.Extractor.Extract(string(rawHTML))
	if err != nil {
		p.Logger.Error("failed to parse document", "cik", filing.CIK, "error", err)
		result.Extraction.Err = err
		result.ErrorType = "parse_error"
		return nil, err
	}
	return extraction, nil
}

// fetchDocument returns the filing document, serving it from artifact
// storage when a fresh copy exists. Caching needs a filing ID, so it is
// skipped when no database is attached.
func (p *Pipeline) fetchDocument(ctx context.Context, filing *edgar.Filing, filingID int64) ([]byte, string, error) {
	if p.Manager != nil && filingID > 0 {
		data, ok, err := p.Manager.GetRawHTML(filingID)
		if err != nil {
			p.Logger.Warn("error checking artifact storage, fetching fresh", "cik", filing.CIK, "error", err)
		} else if ok {
			p.Logger.Info("document found in storage", "cik", filing.CIK, "filing_id", filingID)
			return data, "", nil
		}
	}

	docURL, err := p.Client.DocumentURL(ctx, filing)
	if err != nil {
		return nil, "", err
	}
	data, err := p.Client.Get(ctx, docURL)
	if err != nil {
		return nil, docURL, err
	}

	if p.Manager != nil && filingID > 0 {
		path, err := p.Manager.SetRawHTML(filingID, data)
		if err != nil {
			p.Logger.Warn("failed to store raw document", "cik", filing.CIK, "error", err)
		} else if p.DB != nil {
			hash := artifacts.ContentHash(data)
			if err := p.DB.UpsertArtifact(filingID, "raw_html", hash, path, int64(len(data))); err != nil {
				p.Logger.Warn("failed to record raw artifact", "cik", filing.CIK, "error", err)
			}
		}
	}

	if p.DB != nil && filingID > 0 && docURL != "" {
		if err := p.DB.SetDocumentURL(filingID, docURL); err != nil {
			p.Logger.Warn("failed to record document url", "cik", filing.CIK, "error", err)
		}
	}

	return data, docURL, nil
}

func (p *Pipeline) recordFiling(filing *edgar.Filing, result *Result) int64 {
	if p.DB == nil {
		return 0
	}
	id, err := p.DB.InsertFiling(db.FilingRecord{
		CIK:        filing.CIK,
		FilingYear: filing.Year,
		Variant:    result.Extraction.Variant,
		IndexPath:  filing.Path,
		FilingDate: filing.FilingDate,
	})
	if err != nil {
		p.Logger.Warn("failed to record filing", "cik", filing.CIK, "error", err)
		return 0
	}
	result.FilingID = id
	return id
}

func (p *Pipeline) recordAccess(filingID int64, url string, status int, errorType string, success bool) {
	if p.DB == nil || filingID == 0 {
		return
	}
	if err := p.DB.RecordAccess(filingID, url, status, errorType, success); err != nil {
		p.Logger.Warn("failed to record access", "filing_id", filingID, "error", err)
	}
}

// persist writes the section fragment, the YAML summary and the title rows
// for a completed job. Failures here degrade to warnings; the output CSV is
// the contract, the artifacts are conveniences.
func (p *Pipeline) persist(filing *edgar.Filing, result *Result, extraction *extract.Result) {
	filingID := result.FilingID

	if p.Manager != nil && filingID > 0 {
		if extraction.Found {
			path, err := p.Manager.SetSectionHTML(filingID, extraction.SectionHTML)
			if err != nil {
				p.Logger.Warn("failed to store section fragment", "filing_id", filingID, "error", err)
			} else if p.DB != nil {
				hash := artifacts.ContentHash([]byte(extraction.SectionHTML))
				if err := p.DB.UpsertArtifact(filingID, "section_html", hash, path, int64(len(extraction.SectionHTML))); err != nil {
					p.Logger.Warn("failed to record section artifact", "filing_id", filingID, "error", err)
				}
			}
		}

		summary := report.Summary{
			CIK:           filing.CIK,
			FilingYear:    filing.Year,
			Variant:       result.Extraction.Variant,
			FilingDate:    filing.FilingDate,
			ReportingDate: extraction.ReportingDate,
			SectionFound:  extraction.Found,
			Titles:        extraction.Titles,
			TopTerms:      report.TopTerms(report.TermFrequency(extraction.SectionText), 10),
		}
		if _, err := p.Manager.WriteSummary(filingID, &summary); err != nil {
			p.Logger.Warn("failed to write summary", "filing_id", filingID, "error", err)
		}
	}

	if p.DB != nil && filingID > 0 && p.RunID != "" && extraction.Found {
		if err := p.DB.InsertTitles(p.RunID, filingID, extraction.ReportingDate, extraction.Titles); err != nil {
			p.Logger.Warn("failed to record titles", "filing_id", filingID, "error", err)
		}
	}
}
