// Package artifacts stores per-filing files under a results directory.
package artifacts

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseDir = "rfx-results"

	RawHTMLFile     = "raw.html"
	SectionHTMLFile = "section.html"
	SummaryFile     = "summary.yaml"
)

// FilingDir returns the directory for a specific filing ID.
// Example: rfx-results/42/
func FilingDir(baseDir string, filingID int64) string {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return filepath.Join(baseDir, fmt.Sprintf("%d", filingID))
}

// Manager handles storage and retrieval of filing artifacts.
type Manager struct {
	baseDir string
	maxAge  time.Duration // Max age before a stored document is considered stale
}

// NewManager creates a Manager rooted at baseDir. A zero or negative maxAge
// means stored documents never expire.
func NewManager(baseDir string, maxAge time.Duration) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Manager{baseDir: baseDir, maxAge: maxAge}, nil
}

// BaseDir returns the results directory root.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// MaxAge returns the configured max age for cached documents.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

func (m *Manager) path(filingID int64, name string) string {
	return filepath.Join(FilingDir(m.baseDir, filingID), name)
}

func (m *Manager) ensureDir(filingID int64) error {
	if err := os.MkdirAll(FilingDir(m.baseDir, filingID), 0750); err != nil {
		return fmt.Errorf("failed to create filing directory: %w", err)
	}
	return nil
}

// GetRawHTML retrieves a stored filing document if present and fresh.
func (m *Manager) GetRawHTML(filingID int64) ([]byte, bool, error) {
	filePath := m.path(filingID, RawHTMLFile)

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error statting raw HTML: %w", err)
	}

	if m.maxAge > 0 && time.Since(info.ModTime()) > m.maxAge {
		return nil, false, nil // Stale
	}

	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, false, fmt.Errorf("error reading raw HTML: %w", err)
	}
	return data, true, nil
}

// SetRawHTML stores the fetched filing document.
// Writes to rfx-results/{filing_id}/raw.html
func (m *Manager) SetRawHTML(filingID int64, data []byte) (string, error) {
	if err := m.ensureDir(filingID); err != nil {
		return "", err
	}
	filePath := m.path(filingID, RawHTMLFile)
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write raw HTML: %w", err)
	}
	return filePath, nil
}

// SetSectionHTML stores the extracted section fragment.
// Writes to rfx-results/{filing_id}/section.html
func (m *Manager) SetSectionHTML(filingID int64, fragment string) (string, error) {
	if err := m.ensureDir(filingID); err != nil {
		return "", err
	}
	filePath := m.path(filingID, SectionHTMLFile)
	if err := os.WriteFile(filePath, []byte(fragment), 0600); err != nil {
		return "", fmt.Errorf("failed to write section HTML: %w", err)
	}
	return filePath, nil
}

// WriteSummary marshals v as YAML to rfx-results/{filing_id}/summary.yaml.
func (m *Manager) WriteSummary(filingID int64, v any) (string, error) {
	if err := m.ensureDir(filingID); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	filePath := m.path(filingID, SummaryFile)
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return filePath, nil
}

// ReadSummary unmarshals rfx-results/{filing_id}/summary.yaml into v.
func (m *Manager) ReadSummary(filingID int64, v any) (bool, error) {
	filePath := m.path(filingID, SummaryFile)
	data, err := os.ReadFile(filepath.Clean(filePath))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading summary: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return true, nil
}

// ContentHash returns a short stable hash for stored data.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:6])
}
