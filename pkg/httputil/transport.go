package httputil

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// staleWarning is attached to every response served from the heuristic
// cache. The pages we cache carry no freshness information of their own, so
// anything served from disk is by definition potentially stale.
const staleWarning = "110 - Automatically cached! Response is Stale."

// cacheableStatuses are the statuses a response may be heuristically cached
// under (the set RFC 9111 permits caching without explicit freshness info).
var cacheableStatuses = map[int]bool{
	200: true, 203: true, 204: true, 206: true,
	300: true, 301: true, 404: true, 405: true,
	410: true, 414: true, 501: true,
}

// CacheTransport is an [http.RoundTripper] that serves GET responses from a
// disk-backed [Cache] and stores fresh ones, with a heuristic expiry policy
// (the cache's TTL, one day in this tool). Entries past the TTL are treated
// as misses and refetched; hits are served with a Warning header tagging
// them as stale.
//
// Only GET requests participate; everything else passes straight through to
// Base. Requests are keyed by full URL.
type CacheTransport struct {
	Base   http.RoundTripper // nil means http.DefaultTransport
	Cache  *Cache            // nil disables caching entirely
	Logger *log.Logger       // nil means log.Default()
}

// cachedResponse is the on-disk representation of an HTTP response.
type cachedResponse struct {
	Status    int         `json:"status"`
	Header    http.Header `json:"header"`
	Body      []byte      `json:"body"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// RoundTrip implements http.RoundTripper.
func (t *CacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Cache == nil || req.Method != http.MethodGet {
		return base.RoundTrip(req)
	}

	logger := t.Logger
	if logger == nil {
		logger = log.Default()
	}

	key := req.URL.String()

	var entry cachedResponse
	ok, err := t.Cache.Get(key, &entry)
	switch {
	case ok:
		logger.Debug("serving cached response", "url", key, "age", time.Since(entry.FetchedAt).Round(time.Second))
		return entry.response(req), nil
	case errors.Is(err, ErrExpired):
		logger.Debug("cached response expired, refetching", "url", key)
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if !cacheableStatuses[resp.StatusCode] {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry = cachedResponse{
		Status:    resp.StatusCode,
		Header:    resp.Header.Clone(),
		Body:      body,
		FetchedAt: time.Now(),
	}
	if err := t.Cache.Set(key, entry); err != nil {
		logger.Warn("failed to cache response", "url", key, "err", err)
	}
	return resp, nil
}

// response reconstructs an http.Response from the cached entry. The Warning
// header marks it as a heuristically cached copy.
func (e *cachedResponse) response(req *http.Request) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("Warning", staleWarning)
	return &http.Response{
		StatusCode:    e.Status,
		Status:        http.StatusText(e.Status),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}
}
