package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Filings table: one row per located 10-K submission variant
CREATE TABLE IF NOT EXISTS filings (
    filing_id INTEGER PRIMARY KEY AUTOINCREMENT,
    cik TEXT NOT NULL,
    filing_year TEXT NOT NULL,
    variant TEXT NOT NULL,            -- original, amended
    index_path TEXT,                  -- edgar/data/.../....txt submission path
    document_url TEXT,
    filing_date TEXT,                 -- m/d/yyyy
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(cik, filing_year, variant)
);

CREATE INDEX IF NOT EXISTS idx_filings_cik ON filings(cik);
CREATE INDEX IF NOT EXISTS idx_filings_year ON filings(filing_year);

-- Accesses: every fetch attempt against the archive
CREATE TABLE IF NOT EXISTS accesses (
    access_id INTEGER PRIMARY KEY AUTOINCREMENT,
    filing_id INTEGER NOT NULL,
    url TEXT,
    status_code INTEGER,
    error_type TEXT,                  -- fetch_error, parse_error, ...
    success BOOLEAN NOT NULL,
    accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (filing_id) REFERENCES filings(filing_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_accesses_filing ON accesses(filing_id);

-- Artifacts: files written for a filing (raw html, section fragment, summary)
CREATE TABLE IF NOT EXISTS artifacts (
    artifact_id INTEGER PRIMARY KEY AUTOINCREMENT,
    filing_id INTEGER NOT NULL,
    kind TEXT NOT NULL,               -- raw_html, section_html, summary_yaml
    content_hash TEXT NOT NULL,
    file_path TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (filing_id) REFERENCES filings(filing_id) ON DELETE CASCADE,
    UNIQUE(filing_id, kind)
);

CREATE INDEX IF NOT EXISTS idx_artifacts_filing ON artifacts(filing_id);

-- Runs: one row per batch invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,          -- uuid
    input_path TEXT,
    output_path TEXT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    total INTEGER DEFAULT 0,
    succeeded INTEGER DEFAULT 0,
    failed INTEGER DEFAULT 0
);

-- Titles: extracted risk-factor headings, ordered per filing
CREATE TABLE IF NOT EXISTS titles (
    title_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    filing_id INTEGER NOT NULL,
    position INTEGER NOT NULL,        -- first-seen order within the section
    title TEXT NOT NULL,
    reporting_date TEXT,              -- m/d/yyyy
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    FOREIGN KEY (filing_id) REFERENCES filings(filing_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_titles_run ON titles(run_id);
CREATE INDEX IF NOT EXISTS idx_titles_filing ON titles(filing_id);
`
