package batch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ribkatam/10-K-filing-RFD-extractor/models"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/artifacts"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/db"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/edgar"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/extract"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/report"
)

// NewLogger builds the shared JSON logger. Quiet keeps errors only.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadEnv loads .env if present and returns the runtime config. A missing
// .env is fine; the environment may already be set.
func LoadEnv() models.Config {
	_ = godotenv.Load()
	return models.LoadConfig()
}

// newExtractor honors a --config heuristics override file when given.
func newExtractor(c *cli.Context) (*extract.Extractor, error) {
	if c.IsSet("config") {
		return extract.LoadHeuristics(c.String("config"))
	}
	return extract.Default(), nil
}

func newClient(cfg models.Config, c *cli.Context) *edgar.Client {
	userAgent := cfg.UserAgent
	if c.IsSet("user-agent") {
		userAgent = c.String("user-agent")
	}
	return edgar.NewClient(edgar.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: userAgent,
		Timeout:   cfg.HTTPTimeout,
	})
}

// BatchAction runs the full CSV pipeline: read rows, process filings
// concurrently, write the output CSV and print run statistics.
func BatchAction(c *cli.Context) error {
	logger := NewLogger(c.Bool("quiet"))
	cfg := LoadEnv()

	inputPath := c.String("input")
	outputPath := c.String("output")

	jobs, err := ReadJobs(inputPath)
	if err != nil {
		logger.Error("failed to read input", "path", inputPath, "error", err)
		return cli.Exit("failed to read input", 2)
	}

	extractor, err := newExtractor(c)
	if err != nil {
		logger.Error("failed to load heuristics", "error", err)
		return cli.Exit("failed to load heuristics", 2)
	}

	var maxAge time.Duration
	if c.Bool("force-fetch") {
		maxAge = time.Nanosecond // anything stored is stale
	} else {
		maxAge = cfg.CacheMaxAge
	}

	manager, err := artifacts.NewManager(resolveResultsDir(cfg, c), maxAge)
	if err != nil {
		logger.Error("failed to initialize artifact storage", "error", err)
		return cli.Exit("failed to initialize artifact storage", 2)
	}

	var database *db.DB
	if !c.Bool("no-db") {
		database, err = openDatabase(cfg)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return cli.Exit("failed to open database", 2)
		}
		defer database.Close()
	}

	runID := uuid.NewString()
	if database != nil {
		if err := database.CreateRun(runID, inputPath, outputPath); err != nil {
			logger.Warn("failed to register run", "run_id", runID, "error", err)
		}
	}

	workers := cfg.WorkerCount
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	pipeline := &Pipeline{
		Logger:    logger,
		Client:    newClient(cfg, c),
		Extractor: extractor,
		Manager:   manager,
		DB:        database,
		RunID:     runID,
		Workers:   workers,
	}

	results, stats, runErr := pipeline.Run(c.Context, jobs)

	if err := WriteRows(outputPath, Rows(results)); err != nil {
		logger.Error("failed to write output", "path", outputPath, "error", err)
		return cli.Exit("failed to write output", 2)
	}

	writeRunReport(logger, runID, inputPath, outputPath, stats)

	if database != nil {
		if err := database.FinishRun(runID, stats.Total, stats.Succeeded, stats.Failed); err != nil {
			logger.Warn("failed to finalize run", "run_id", runID, "error", err)
		}
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))

	if runErr != nil {
		return cli.Exit("one or more filings failed", 1)
	}
	return nil
}

// ExtractAction processes a single filing and prints the result as JSON.
// The document comes from the archive by CIK and year, or from a local
// file with --file.
func ExtractAction(c *cli.Context) error {
	logger := NewLogger(c.Bool("quiet"))
	cfg := LoadEnv()

	extractor, err := newExtractor(c)
	if err != nil {
		logger.Error("failed to load heuristics", "error", err)
		return cli.Exit("failed to load heuristics", 2)
	}

	if c.IsSet("file") {
		return extractFile(c.String("file"), extractor, logger)
	}

	cik := c.String("cik")
	year := c.String("year")
	if cik == "" || year == "" {
		return cli.Exit("--cik and --year are required (or use --file)", 1)
	}

	pipeline := &Pipeline{
		Logger:    logger,
		Client:    newClient(cfg, c),
		Extractor: extractor,
		Workers:   1,
	}

	results, _, runErr := pipeline.Run(c.Context, []Job{{Line: 2, CIK: cik, FilingYear: year}})

	extraction := results[0].Extraction
	payload := map[string]any{
		"cik":            extraction.CIK,
		"filing_year":    extraction.FilingYear,
		"variant":        extraction.Variant,
		"filing_date":    extraction.FilingDate,
		"reporting_date": extraction.ReportingDate,
		"section_found":  extraction.SectionFound,
		"titles":         extraction.Titles,
	}
	if extraction.Err != nil {
		payload["error"] = extraction.Err.Error()
		payload["error_type"] = results[0].ErrorType
	}

	out, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Println(string(out))

	if runErr != nil {
		return cli.Exit("extraction failed", 1)
	}
	return nil
}

// extractFile runs the pipeline on a document already on disk.
func extractFile(path string, extractor *extract.Extractor, logger *slog.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read document", "path", path, "error", err)
		return cli.Exit("failed to read document", 2)
	}

	res, err := extractor.Extract(string(raw))
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err)
		return cli.Exit("extraction failed", 1)
	}

	payload := map[string]any{
		"file":           path,
		"reporting_date": res.ReportingDate,
		"section_found":  res.Found,
		"titles":         res.Titles,
	}

	out, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Println(string(out))
	return nil
}

// writeRunReport writes the Markdown and HTML run summaries beside the
// output CSV. Report failures are warnings; the CSV is already on disk.
func writeRunReport(logger *slog.Logger, runID, inputPath, outputPath string, stats Stats) {
	rr := &report.RunReport{
		RunID:          runID,
		InputPath:      inputPath,
		OutputPath:     outputPath,
		Total:          stats.Total,
		Succeeded:      stats.Succeeded,
		Failed:         stats.Failed,
		SectionsFound:  stats.SectionsFound,
		ElapsedSeconds: stats.TotalTimeSeconds,
		FailuresByType: stats.FailuresByType,
		TopTerms:       stats.TopTerms,
	}

	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	mdPath := base + "_report.md"
	if err := os.WriteFile(mdPath, []byte(rr.Markdown()), 0644); err != nil {
		logger.Warn("failed to write run report", "path", mdPath, "error", err)
	}

	html, err := rr.RenderHTML()
	if err != nil {
		logger.Warn("failed to render run report", "error", err)
		return
	}
	htmlPath := base + "_report.html"
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		logger.Warn("failed to write run report", "path", htmlPath, "error", err)
	}
}

func resolveResultsDir(cfg models.Config, c *cli.Context) string {
	if c.IsSet("output-dir") {
		return c.String("output-dir")
	}
	return cfg.ResultsDir
}

func openDatabase(cfg models.Config) (*db.DB, error) {
	if cfg.DBPath != "" {
		return db.OpenAt(cfg.DBPath)
	}
	return db.Open()
}
