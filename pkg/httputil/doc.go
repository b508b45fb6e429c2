// Package httputil provides the HTTP plumbing shared by the scraper and the
// API clients: a file-backed cache, a caching [net/http.RoundTripper] with a
// one-day heuristic expiry, and retry helpers for transient failures.
//
// The response cache exists because GitHub's dependents pages are expensive
// to fetch and rate-limited; re-running the tool against the same repository
// within a day should mostly hit disk. GitHub sends no cache headers on these
// pages, so cached copies are heuristic and served hits carry an HTTP Warning
// header marking them as stale.
package httputil
