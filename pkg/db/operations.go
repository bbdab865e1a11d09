package db

import (
	"database/sql"
	"fmt"
	"time"
)

// FilingRecord mirrors a row in the filings table.
type FilingRecord struct {
	FilingID    int64
	CIK         string
	FilingYear  string
	Variant     string
	IndexPath   string
	DocumentURL string
	FilingDate  string
}

// Stats summarizes the contents of the database.
type Stats struct {
	Filings     int
	Accesses    int
	Artifacts   int
	Runs        int
	Titles      int
	FailedFetch int
}

// InsertFiling inserts a filing row or refreshes an existing one, returning
// its filing_id either way.
func (db *DB) InsertFiling(f FilingRecord) (int64, error) {
	_, err := db.Exec(`
		INSERT INTO filings (cik, filing_year, variant, index_path, document_url, filing_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cik, filing_year, variant) DO UPDATE SET
			index_path = excluded.index_path,
			document_url = excluded.document_url,
			filing_date = excluded.filing_date,
			updated_at = CURRENT_TIMESTAMP`,
		f.CIK, f.FilingYear, f.Variant, f.IndexPath, f.DocumentURL, f.FilingDate)
	if err != nil {
		return 0, fmt.Errorf("failed to insert filing: %w", err)
	}

	var id int64
	err = db.QueryRow(
		"SELECT filing_id FROM filings WHERE cik = ? AND filing_year = ? AND variant = ?",
		f.CIK, f.FilingYear, f.Variant).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to look up filing: %w", err)
	}
	return id, nil
}

// GetFiling returns the stored filing for a cik, year and variant.
func (db *DB) GetFiling(cik, filingYear, variant string) (*FilingRecord, error) {
	f := FilingRecord{}
	err := db.QueryRow(`
		SELECT filing_id, cik, filing_year, variant,
		       COALESCE(index_path, ''), COALESCE(document_url, ''), COALESCE(filing_date, '')
		FROM filings WHERE cik = ? AND filing_year = ? AND variant = ?`,
		cik, filingYear, variant).Scan(
		&f.FilingID, &f.CIK, &f.FilingYear, &f.Variant,
		&f.IndexPath, &f.DocumentURL, &f.FilingDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filing: %w", err)
	}
	return &f, nil
}

// SetDocumentURL records the resolved document URL for a filing.
func (db *DB) SetDocumentURL(filingID int64, url string) error {
	_, err := db.Exec(
		"UPDATE filings SET document_url = ?, updated_at = CURRENT_TIMESTAMP WHERE filing_id = ?",
		url, filingID)
	if err != nil {
		return fmt.Errorf("failed to set document url: %w", err)
	}
	return nil
}

// RecordAccess logs a fetch attempt against the archive.
func (db *DB) RecordAccess(filingID int64, url string, statusCode int, errorType string, success bool) error {
	_, err := db.Exec(`
		INSERT INTO accesses (filing_id, url, status_code, error_type, success)
		VALUES (?, ?, ?, ?, ?)`,
		filingID, url, statusCode, errorType, success)
	if err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// UpsertArtifact records a written artifact, replacing any previous row for
// the same filing and kind.
func (db *DB) UpsertArtifact(filingID int64, kind, contentHash, filePath string, sizeBytes int64) error {
	_, err := db.Exec(`
		INSERT INTO artifacts (filing_id, kind, content_hash, file_path, size_bytes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(filing_id, kind) DO UPDATE SET
			content_hash = excluded.content_hash,
			file_path = excluded.file_path,
			size_bytes = excluded.size_bytes,
			created_at = CURRENT_TIMESTAMP`,
		filingID, kind, contentHash, filePath, sizeBytes)
	if err != nil {
		return fmt.Errorf("failed to upsert artifact: %w", err)
	}
	return nil
}

// CreateRun registers a new batch run.
func (db *DB) CreateRun(runID, inputPath, outputPath string) error {
	_, err := db.Exec(
		"INSERT INTO runs (run_id, input_path, output_path) VALUES (?, ?, ?)",
		runID, inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun records final counts for a batch run.
func (db *DB) FinishRun(runID string, total, succeeded, failed int) error {
	_, err := db.Exec(`
		UPDATE runs SET finished_at = ?, total = ?, succeeded = ?, failed = ?
		WHERE run_id = ?`,
		time.Now().UTC(), total, succeeded, failed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InsertTitles stores an ordered list of extracted headings for one filing.
func (db *DB) InsertTitles(runID string, filingID int64, reportingDate string, titles []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO titles (run_id, filing_id, position, title, reporting_date)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range titles {
		if _, err := stmt.Exec(runID, filingID, i, t, reportingDate); err != nil {
			return fmt.Errorf("failed to insert title %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// GetTitles returns the headings stored for a run and filing, in position order.
func (db *DB) GetTitles(runID string, filingID int64) ([]string, error) {
	rows, err := db.Query(
		"SELECT title FROM titles WHERE run_id = ? AND filing_id = ? ORDER BY position",
		runID, filingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RunRecord mirrors a row in the runs table. FinishedAt is empty for a run
// still in flight.
type RunRecord struct {
	RunID      string
	InputPath  string
	OutputPath string
	StartedAt  string
	FinishedAt string
	Total      int
	Succeeded  int
	Failed     int
}

// ListFilings returns the most recently updated filings.
func (db *DB) ListFilings(limit int) ([]FilingRecord, error) {
	rows, err := db.Query(`
		SELECT filing_id, cik, filing_year, variant,
		       COALESCE(index_path, ''), COALESCE(document_url, ''), COALESCE(filing_date, '')
		FROM filings ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list filings: %w", err)
	}
	defer rows.Close()

	var out []FilingRecord
	for rows.Next() {
		var f FilingRecord
		if err := rows.Scan(&f.FilingID, &f.CIK, &f.FilingYear, &f.Variant,
			&f.IndexPath, &f.DocumentURL, &f.FilingDate); err != nil {
			return nil, fmt.Errorf("failed to scan filing: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListRuns returns the most recent batch runs.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := db.Query(`
		SELECT run_id, COALESCE(input_path, ''), COALESCE(output_path, ''),
		       COALESCE(started_at, ''), COALESCE(finished_at, ''),
		       total, succeeded, failed
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.InputPath, &r.OutputPath,
			&r.StartedAt, &r.FinishedAt, &r.Total, &r.Succeeded, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetStats returns row counts across the main tables.
func (db *DB) GetStats() (*Stats, error) {
	s := Stats{}
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM filings", &s.Filings},
		{"SELECT COUNT(*) FROM accesses", &s.Accesses},
		{"SELECT COUNT(*) FROM artifacts", &s.Artifacts},
		{"SELECT COUNT(*) FROM runs", &s.Runs},
		{"SELECT COUNT(*) FROM titles", &s.Titles},
		{"SELECT COUNT(*) FROM accesses WHERE success = 0", &s.FailedFetch},
	}
	for _, c := range counts {
		if err := db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return &s, nil
}
