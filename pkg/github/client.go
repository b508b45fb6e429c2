package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ghtopdep/ghtopdep/pkg/httputil"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	apiTimeout        = 10 * time.Second

	// descriptionWidth is the display budget for enriched descriptions.
	descriptionWidth = 60
)

var (
	// ErrNotFound is returned when a repository doesn't exist (or is private
	// to the authenticated user).
	ErrNotFound = errors.New("repository not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected statuses).
	ErrNetwork = errors.New("network error")
)

// Client talks to the GitHub REST API for description enrichment and code
// search. Responses are cached; transient failures (429, 5xx) are retried
// with backoff before giving up.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	baseURL string
	headers map[string]string
}

// NewClient creates an authenticated API client. The cache may be nil to
// disable response caching.
func NewClient(token string, cache *httputil.Cache) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		http:    &http.Client{Timeout: apiTimeout},
		cache:   cache,
		baseURL: defaultAPIBaseURL,
		headers: headers,
	}
}

// Describe fetches the one-line description of the repository at relPath
// ("/owner/repo") and shortens it to at most 60 characters with an ellipsis
// marker. A present-but-empty upstream description yields a single space so
// a table cell never collapses. Malformed paths, fetch failures, and
// not-found repositories return an error; callers treat it as recoverable.
func (c *Client) Describe(ctx context.Context, relPath string) (string, error) {
	parts := strings.Split(strings.TrimPrefix(relPath, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("malformed repository path %q", relPath)
	}
	owner, repo := parts[0], parts[1]

	var data repoResponse
	key := "repo:" + owner + "/" + repo
	err := c.cached(ctx, key, &data, func() error {
		return c.get(ctx, fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo), &data)
	})
	if err != nil {
		return "", err
	}

	if data.Description == "" {
		return " ", nil
	}
	return Shorten(data.Description, descriptionWidth), nil
}

// SearchCode runs a code search scoped to one repository and returns the
// HTML URL of each hit.
func (c *Client) SearchCode(ctx context.Context, query, repoPath string) ([]string, error) {
	q := url.QueryEscape(fmt.Sprintf("%s repo:%s", query, repoPath))

	var data searchResponse
	key := "search:" + q
	err := c.cached(ctx, key, &data, func() error {
		return c.get(ctx, fmt.Sprintf("%s/search/code?q=%s&per_page=100", c.baseURL, q), &data)
	})
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		urls = append(urls, item.HTMLURL)
	}
	return urls, nil
}

// cached serves v from the cache or runs fetch (with retry) and stores the
// result. A nil cache always fetches.
func (c *Client) cached(ctx context.Context, key string, v any, fetch func() error) error {
	if c.cache != nil {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(v)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case httputil.RetryableStatus(resp.StatusCode):
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
}

// Shorten collapses whitespace in s and truncates it at a word boundary so
// that the result, including the "..." marker, fits within width characters.
// Text that already fits is returned whole, without a marker.
func Shorten(s string, width int) string {
	words := strings.Fields(s)
	joined := strings.Join(words, " ")
	if len(joined) <= width {
		return joined
	}

	const placeholder = "..."
	var out string
	for _, w := range words {
		next := w
		if out != "" {
			next = out + " " + w
		}
		if len(next)+len(placeholder) > width {
			break
		}
		out = next
	}
	return out + placeholder
}

type repoResponse struct {
	Description string `json:"description"`
}

type searchResponse struct {
	Items []struct {
		HTMLURL string `json:"html_url"`
	} `json:"items"`
}
