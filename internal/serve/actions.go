package serve

import (
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/ribkatam/10-K-filing-RFD-extractor/internal/batch"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/db"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/edgar"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/extract"
)

// ServeAction starts the HTTP API.
func ServeAction(c *cli.Context) error {
	logger := batch.NewLogger(c.Bool("quiet"))
	cfg := batch.LoadEnv()

	port := cfg.Port
	if c.IsSet("port") {
		port = c.String("port")
	}

	client := edgar.NewClient(edgar.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
	})

	var database *db.DB
	if !c.Bool("no-db") {
		var err error
		if cfg.DBPath != "" {
			database, err = db.OpenAt(cfg.DBPath)
		} else {
			database, err = db.Open()
		}
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return cli.Exit("failed to open database", 2)
		}
		defer database.Close()
	}

	srv := NewServer(extract.Default(), client, database, logger)

	logger.Info("listening", "port", port)
	if err := http.ListenAndServe(":"+port, srv); err != nil {
		logger.Error("server stopped", "error", err)
		return cli.Exit("server stopped", 2)
	}
	return nil
}
