// Package report implements the external reporting collaborator: a client
// for the result-cache endpoint the tool can consult before scraping and
// submit to afterwards, and a small development server implementing the same
// contract.
//
// Unlike mid-scrape failures, any failure talking to the reporting endpoint
// is fatal for the run: the caller explicitly asked for report mode, and
// silently degrading to a partial behavior would be misleading.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ghtopdep/ghtopdep/pkg/scrape"
)

const clientTimeout = 30 * time.Second

// ErrNotFound is returned by [Client.Lookup] when the endpoint has no cached
// result set for the repository. It is the only lookup failure the caller
// may recover from (by scraping as normal).
var ErrNotFound = errors.New("no cached result for repository")

// Submission is the payload posted back to the endpoint after scraping. Deps
// carries the unsorted, uncapped result set; entries below the minimum-star
// threshold were already dropped by the scrape loop and are not resent.
type Submission struct {
	URL        string         `json:"url"`
	Owner      string         `json:"owner"`
	Repository string         `json:"repository"`
	Deps       []scrape.Entry `json:"deps"`
}

// Client talks to a reporting endpoint.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a reporting client for the given base URL
// (e.g. "http://127.0.0.1:3000").
func NewClient(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: clientTimeout},
	}
}

// Lookup asks the endpoint for a previously cached result set for
// owner/repo. A 404 returns [ErrNotFound]; any other non-success status or
// transport failure is an error the caller must treat as fatal.
func (c *Client) Lookup(ctx context.Context, owner, repo string) ([]scrape.Entry, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.base, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("report lookup: unexpected status %d", resp.StatusCode)
	}

	var entries []scrape.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("report lookup: invalid response: %w", err)
	}
	return entries, nil
}

// Submit posts the scraped result set to the endpoint. Any non-success
// status or transport failure is an error the caller must treat as fatal.
func (c *Client) Submit(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/repos", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("report submit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("report submit: unexpected status %d", resp.StatusCode)
	}
	return nil
}
