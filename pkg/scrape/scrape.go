package scrape

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
)

const (
	// DefaultBaseURL is the site origin joined with relative repository links.
	DefaultBaseURL = "https://github.com"

	// DefaultMaxPages caps pagination as a safety valve against runaway or
	// self-referencing pagination controls.
	DefaultMaxPages = 100

	// EntriesPerPage is how many dependents GitHub renders per listing page.
	// Used only to size progress reporting.
	EntriesPerPage = 30

	defaultTimeout = 30 * time.Second
)

// Entry is one accepted dependent: a repository that depends on the target,
// with its star count and, when enrichment was requested, a short
// description. Entries are immutable once created and unique by URL.
type Entry struct {
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
	Description string `json:"description,omitempty"`
}

// Result is the terminal state of one scraping run.
//
// TotalSeen counts every rendered dependent row, including ghost and private
// ones without a star count and entries below the star threshold.
// NonzeroSeen counts rows whose parsed star count was nonzero, independent
// of the threshold. Entries holds only accepted dependents, in encounter
// order.
type Result struct {
	Entries     []Entry
	TotalSeen   int
	NonzeroSeen int
	Pages       int
}

// Describer fetches a one-line description for a repository given its
// relative path ("/owner/repo"). Implementations should treat failures as
// recoverable; the scraper logs a warning and keeps the entry with an empty
// description.
type Describer interface {
	Describe(ctx context.Context, relPath string) (string, error)
}

// Options configures a scraping run.
type Options struct {
	// StartURL is the first listing page
	// ({repo}/network/dependents?dependent_type=...).
	StartURL string
	// RepoURL is the target repository's own URL; a dependent entry that
	// resolves to it is never included.
	RepoURL string
	// BaseURL is the origin joined with relative repository links.
	// Defaults to [DefaultBaseURL].
	BaseURL string
	// MinStars excludes dependents below the threshold from the result set.
	// They still count toward TotalSeen and NonzeroSeen.
	MinStars int
	// MaxPages caps pagination. Defaults to [DefaultMaxPages].
	MaxPages int
	// Selectors are the structural CSS selectors; empty fields fall back to
	// [DefaultSelectors].
	Selectors Selectors
	// Describer, when non-nil, enriches each accepted entry with a
	// description.
	Describer Describer
	// Progress, when non-nil, is invoked after each page with the number of
	// dependent rows seen so far.
	Progress func(seen int)
}

// Scraper walks a repository's dependents listing. Create one with [New] and
// run it once; a Scraper is not restartable.
type Scraper struct {
	client *http.Client
	opts   Options
	logger *log.Logger
}

// New creates a Scraper. The client should carry the fixed per-request
// timeout and any caching transport; pass nil for a plain client with a
// 30-second timeout. A nil logger falls back to log.Default().
func New(client *http.Client, opts Options, logger *log.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	opts.Selectors = opts.Selectors.merged()
	return &Scraper{client: client, opts: opts, logger: logger}
}

// Run executes the pagination loop and returns the accumulated result.
//
// Mid-pagination fetch or parse failures stop the loop early with a warning
// and return the partial result with a nil error; only context cancellation
// is returned as an error. Whatever was accumulated is still presented.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	seen := make(map[string]bool)
	pageURL := s.opts.StartURL

	for {
		doc, err := s.fetchDoc(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			s.logger.Warn("stopping pagination early", "page", res.Pages+1, "err", err)
			return res, nil
		}
		res.Pages++

		s.collectPage(ctx, doc, seen, res)
		if s.opts.Progress != nil {
			s.opts.Progress(res.TotalSeen)
		}

		next, ok := nextPageURL(doc, s.opts.Selectors)
		if !ok {
			return res, nil
		}
		if res.Pages >= s.opts.MaxPages {
			s.logger.Warn("page cap reached, stopping pagination", "pages", res.Pages, "cap", s.opts.MaxPages)
			return res, nil
		}
		pageURL = next
	}
}

// collectPage runs the extractor over every dependent row of one page and
// folds the outcomes into res. Each row is processed independently; a bad
// row never aborts its page.
func (s *Scraper) collectPage(ctx context.Context, doc *goquery.Document, seen map[string]bool, res *Result) {
	frags := doc.Find(s.opts.Selectors.Item)
	res.TotalSeen += frags.Length()

	frags.Each(func(_ int, frag *goquery.Selection) {
		stars, skip := extractStars(frag, s.opts.Selectors)
		switch skip {
		case skipNone:
		case skipNoStarElement:
			// ghost or private dependent
			return
		default:
			s.logger.Warn("skipping dependent row", "reason", skip)
			return
		}

		if stars != 0 {
			res.NonzeroSeen++
		}
		if stars < s.opts.MinStars {
			return
		}

		relPath, skip := extractRepoPath(frag, s.opts.Selectors)
		if skip != skipNone {
			s.logger.Warn("skipping dependent row", "reason", skip)
			return
		}

		repoURL := s.opts.BaseURL + relPath
		if repoURL == s.opts.RepoURL || seen[repoURL] {
			// GitHub may list the same dependent through multiple paths
			return
		}
		seen[repoURL] = true

		entry := Entry{URL: repoURL, Stars: stars}
		if s.opts.Describer != nil {
			desc, err := s.opts.Describer.Describe(ctx, relPath)
			if err != nil {
				s.logger.Warn("description unavailable", "repo", relPath, "err", err)
			}
			entry.Description = desc
		}
		res.Entries = append(res.Entries, entry)
	})
}

// fetchDoc retrieves and parses one listing page. Non-success statuses and
// parse failures are returned as errors; the caller applies the stop-early
// policy.
func (s *Scraper) fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
