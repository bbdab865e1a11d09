// Package serve exposes the extraction pipeline over HTTP.
package serve

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/db"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/edgar"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/extract"
)

// Server is the HTTP API. The archive client and database are optional;
// endpoints needing them answer 503 when they are absent.
type Server struct {
	router    chi.Router
	extractor *extract.Extractor
	client    *edgar.Client
	database  *db.DB
	log       *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(extractor *extract.Extractor, client *edgar.Client, database *db.DB, log *slog.Logger) *Server {
	s := &Server{
		extractor: extractor,
		client:    client,
		database:  database,
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Post("/api/extract", s.handleExtract)
	r.Get("/api/filings/{cik}/{year}", s.handleFiling)
	r.Get("/api/stats", s.handleStats)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
