// Package dbcmd implements the CLI subcommands for inspecting the database
// and stored artifacts.
package dbcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ribkatam/10-K-filing-RFD-extractor/internal/batch"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/artifacts"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/db"
)

func open() (*db.DB, error) {
	cfg := batch.LoadEnv()
	if cfg.DBPath != "" {
		return db.OpenAt(cfg.DBPath)
	}
	return db.Open()
}

// PathAction prints the database file location.
func PathAction(c *cli.Context) error {
	database, err := open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	fmt.Println(database.Path())
	return nil
}

// StatsAction prints row counts across the main tables.
func StatsAction(c *cli.Context) error {
	database, err := open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to query stats: %w", err)
	}

	fmt.Printf("Filings:        %d\n", stats.Filings)
	fmt.Printf("Accesses:       %d\n", stats.Accesses)
	fmt.Printf("  failed:       %d\n", stats.FailedFetch)
	fmt.Printf("Artifacts:      %d\n", stats.Artifacts)
	fmt.Printf("Runs:           %d\n", stats.Runs)
	fmt.Printf("Titles:         %d\n", stats.Titles)
	return nil
}

// FilingsAction lists the most recently touched filings.
func FilingsAction(c *cli.Context) error {
	database, err := open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	filings, err := database.ListFilings(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list filings: %w", err)
	}
	if len(filings) == 0 {
		fmt.Println("No filings recorded yet")
		return nil
	}

	fmt.Printf("%-6s %-10s %-6s %-10s %-12s %s\n", "ID", "CIK", "Year", "Variant", "Filed", "Path")
	fmt.Println(strings.Repeat("-", 90))
	for _, f := range filings {
		fmt.Printf("%-6d %-10s %-6s %-10s %-12s %s\n",
			f.FilingID, f.CIK, f.FilingYear, f.Variant, f.FilingDate, f.IndexPath)
	}
	fmt.Printf("\nTotal: %d filings\n", len(filings))
	return nil
}

// RunsAction lists recent batch runs with their counts.
func RunsAction(c *cli.Context) error {
	database, err := open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	fmt.Printf("%-38s %-20s %-6s %-8s %-8s %s\n", "Run", "Started", "Total", "OK", "Failed", "Output")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Printf("%-38s %-20s %-6d %-8d %-8d %s\n",
			r.RunID, r.StartedAt, r.Total, r.Succeeded, r.Failed, r.OutputPath)
	}
	return nil
}

// RawAction prints a stored document by filing ID.
func RawAction(c *cli.Context) error {
	return printArtifact(c, artifacts.RawHTMLFile)
}

// SectionAction prints a stored section fragment by filing ID.
func SectionAction(c *cli.Context) error {
	return printArtifact(c, artifacts.SectionHTMLFile)
}

// SummaryAction prints a stored summary by filing ID.
func SummaryAction(c *cli.Context) error {
	return printArtifact(c, artifacts.SummaryFile)
}

func printArtifact(c *cli.Context, name string) error {
	if c.NArg() == 0 {
		return fmt.Errorf("filing ID required\nTip: 'rfx db filings' lists known IDs")
	}
	filingID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid filing ID: %s", c.Args().First())
	}

	cfg := batch.LoadEnv()
	baseDir := cfg.ResultsDir
	if baseDir == "" {
		baseDir = artifacts.DefaultBaseDir
	}

	filePath := filepath.Join(artifacts.FilingDir(baseDir, filingID), name)
	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s not stored for filing %d\nTip: run 'rfx batch' or 'rfx extract' first", name, filingID)
		}
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	fmt.Print(string(data))
	return nil
}
