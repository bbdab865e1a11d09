package serve

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/edgar"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/extract"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/htmltree"
)

const maxDocumentBytes = 64 << 20 // filings run large, but not this large

// extractResponse is the JSON shape for both extract endpoints.
type extractResponse struct {
	SectionFound  bool     `json:"section_found"`
	ReportingDate string   `json:"reporting_date,omitempty"`
	Titles        []string `json:"titles,omitempty"`
	SectionHTML   string   `json:"section_html,omitempty"`
	CIK           string   `json:"cik,omitempty"`
	FilingYear    string   `json:"filing_year,omitempty"`
	Variant       string   `json:"variant,omitempty"`
	FilingDate    string   `json:"filing_date,omitempty"`
}

// handleExtract runs the pipeline on a raw document posted as the body.
// A document without the section is a normal 200 with section_found false.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		jsonError(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		jsonError(w, "empty request body", http.StatusBadRequest)
		return
	}

	res, err := s.extractor.Extract(string(body))
	if err != nil {
		if errors.Is(err, htmltree.ErrMalformed) {
			jsonError(w, "document could not be parsed", http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("extraction failed", "error", err)
		jsonError(w, "extraction failed", http.StatusInternalServerError)
		return
	}

	resp := toResponse(res)
	resp.CIK = r.URL.Query().Get("cik")
	writeJSON(w, resp)
}

// handleFiling looks a filing up in the archive and extracts from it. The
// amended submission is tried when the original has no section, mirroring
// the batch pipeline.
func (s *Server) handleFiling(w http.ResponseWriter, r *http.Request) {
	if s.client == nil {
		jsonError(w, "archive access not configured", http.StatusServiceUnavailable)
		return
	}

	cik := chi.URLParam(r, "cik")
	year := chi.URLParam(r, "year")
	ctx := r.Context()

	filing, err := s.client.FindFiling(ctx, cik, year, edgar.Original)
	if err != nil {
		if errors.Is(err, edgar.ErrNotFound) {
			jsonError(w, "no 10-K on file for that cik and year", http.StatusNotFound)
			return
		}
		s.log.Error("index lookup failed", "cik", cik, "year", year, "error", err)
		jsonError(w, "archive lookup failed", http.StatusBadGateway)
		return
	}

	doc, err := s.client.FetchDocument(ctx, filing)
	if err != nil {
		s.log.Error("document fetch failed", "cik", cik, "year", year, "error", err)
		jsonError(w, "document fetch failed", http.StatusBadGateway)
		return
	}

	res, err := s.extractor.Extract(doc)
	if err != nil {
		s.log.Error("extraction failed", "cik", cik, "year", year, "error", err)
		jsonError(w, "extraction failed", http.StatusInternalServerError)
		return
	}

	if !res.Found {
		amended, aerr := s.client.FindFiling(ctx, cik, year, edgar.Amended)
		if aerr == nil && amended.Path != filing.Path {
			if adoc, aerr := s.client.FetchDocument(ctx, amended); aerr == nil {
				if ares, aerr := s.extractor.Extract(adoc); aerr == nil {
					filing = amended
					res = ares
				}
			}
		}
	}

	resp := toResponse(res)
	resp.CIK = filing.CIK
	resp.FilingYear = filing.Year
	resp.Variant = string(filing.Variant)
	resp.FilingDate = filing.FilingDate
	writeJSON(w, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		jsonError(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	stats, err := s.database.GetStats()
	if err != nil {
		s.log.Error("stats query failed", "error", err)
		jsonError(w, "stats query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func toResponse(res *extract.Result) extractResponse {
	return extractResponse{
		SectionFound:  res.Found,
		ReportingDate: res.ReportingDate,
		Titles:        res.Titles,
		SectionHTML:   res.SectionHTML,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
