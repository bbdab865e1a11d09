// Package edgar retrieves 10-K filings from the SEC EDGAR archives: the
// quarterly master index, the per-filing index page, and the filing document
// itself. SEC access rules require a descriptive User-Agent with a contact
// address; requests without one are rejected.
package edgar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://www.sec.gov"

	// DefaultUserAgent is a placeholder; real runs should set a contact
	// via EDGAR_USER_AGENT per SEC guidelines.
	DefaultUserAgent = "rfx/1.0 (contact unset)"

	maxRetries = 3
)

// ErrNotFound indicates no matching filing exists in the index year.
var ErrNotFound = errors.New("edgar: filing not found")

// Variant selects between the original 10-K and its 10-K/A amendment.
type Variant string

const (
	Original Variant = "original"
	Amended  Variant = "amended"
)

// Config holds client settings; zero fields fall back to defaults.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client is an EDGAR archive client with retry on transient errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
	}
}

// Get fetches an absolute archive URL with the SEC headers and retry
// behavior. Callers that already resolved a document URL use this to
// download it.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

// get fetches a URL with the SEC headers, retrying transient failures
// (network errors and 5xx) with exponential backoff. 4xx responses are not
// retried; they will not get better.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff(attempt - 1)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retryable, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		return nil, resp.StatusCode >= 500, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, false, nil
}

// backoff returns the wait before retry attempt n (0-indexed), exponential
// with jitter, capped at 30s.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}
