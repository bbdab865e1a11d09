package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ribkatam/10-K-filing-RFD-extractor/internal/batch"
	"github.com/ribkatam/10-K-filing-RFD-extractor/internal/dbcmd"
	"github.com/ribkatam/10-K-filing-RFD-extractor/internal/serve"
)

func main() {
	app := &cli.App{
		Name:  "rfx",
		Usage: "extract risk factor headings from 10-K filings",
		Commands: []*cli.Command{
			{
				Name:   "batch",
				Usage:  "process a CSV of cik/filingyear rows and write one row per extracted heading",
				Action: batch.BatchAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "input CSV with cik and filingyear columns"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "rfdtitle_output.csv", Usage: "output CSV path"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "concurrent workers (default from WORKER_COUNT)"},
					&cli.StringFlag{Name: "output-dir", Usage: "artifact directory (default rfx-results)"},
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML heuristics override file"},
					&cli.StringFlag{Name: "user-agent", Usage: "User-Agent for archive requests (SEC requires contact info)"},
					&cli.BoolFlag{Name: "force-fetch", Usage: "refetch documents even when stored copies exist"},
					&cli.BoolFlag{Name: "no-db", Usage: "skip the metadata database"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
				},
			},
			{
				Name:   "extract",
				Usage:  "process a single filing and print the result as JSON",
				Action: batch.ExtractAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cik", Usage: "company CIK"},
					&cli.StringFlag{Name: "year", Usage: "filing year"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "local HTML document instead of an archive lookup"},
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML heuristics override file"},
					&cli.StringFlag{Name: "user-agent", Usage: "User-Agent for archive requests"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
				},
			},
			{
				Name:   "serve",
				Usage:  "run the extraction HTTP API",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port (default from PORT)"},
					&cli.BoolFlag{Name: "no-db", Usage: "skip the metadata database"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
				},
			},
			{
				Name:  "db",
				Usage: "inspect the metadata database and stored artifacts",
				Subcommands: []*cli.Command{
					{Name: "path", Usage: "print the database file location", Action: dbcmd.PathAction},
					{Name: "stats", Usage: "print row counts", Action: dbcmd.StatsAction},
					{
						Name: "filings", Usage: "list recent filings", Action: dbcmd.FilingsAction,
						Flags: []cli.Flag{&cli.IntFlag{Name: "limit", Value: 20}},
					},
					{
						Name: "runs", Usage: "list recent batch runs", Action: dbcmd.RunsAction,
						Flags: []cli.Flag{&cli.IntFlag{Name: "limit", Value: 10}},
					},
					{Name: "raw", Usage: "print a stored document by filing ID", ArgsUsage: "<filing_id>", Action: dbcmd.RawAction},
					{Name: "section", Usage: "print a stored section fragment by filing ID", ArgsUsage: "<filing_id>", Action: dbcmd.SectionAction},
					{Name: "summary", Usage: "print a stored summary by filing ID", ArgsUsage: "<filing_id>", Action: dbcmd.SummaryAction},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
