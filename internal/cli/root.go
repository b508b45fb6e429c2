package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ghtopdep/ghtopdep/pkg/github"
	"github.com/ghtopdep/ghtopdep/pkg/httputil"
	"github.com/ghtopdep/ghtopdep/pkg/report"
	"github.com/ghtopdep/ghtopdep/pkg/scrape"
)

// scrapeOptions collects the root command's flag values.
type scrapeOptions struct {
	packages    bool
	jsonOut     bool
	report      bool
	description bool
	search      string
	rows        int
	minStars    int
	maxPages    int
	token      string
	noCache    bool
	configPath string
}

// scrapeCommand creates the root command. Running the binary with a
// repository URL scrapes that repository's dependents listing and prints
// the highest-starred dependents.
func (c *CLI) scrapeCommand() *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   appName + " <repository-url>",
		Short: "Rank the repositories and packages that depend on a GitHub repository",
		Long: `ghtopdep walks a repository's dependents listing on github.com and prints
the dependents with the most stars.

Examples:
  ghtopdep https://github.com/dropbox/zxcvbn-ios
  ghtopdep --packages --rows 20 https://github.com/caolan/async
  ghtopdep --json --minstar 50 https://github.com/pallets/click`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScrape(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.packages, "packages", false, "rank dependent packages instead of repositories")
	f.BoolVar(&opts.jsonOut, "json", false, "print the ranked result as JSON")
	f.BoolVar(&opts.report, "report", false, "consult and update the report endpoint (GHTOPDEP_BASE_URL)")
	f.BoolVar(&opts.description, "description", false, "show repository descriptions (requires a token)")
	f.StringVar(&opts.search, "search", "", "print code search hits for this query instead of the table (requires a token)")
	f.IntVar(&opts.rows, "rows", defaultRows, "number of rows in the result table")
	f.IntVar(&opts.minStars, "minstar", defaultMinStars, "minimum star count for a dependent to be included")
	f.IntVar(&opts.maxPages, "max-pages", 0, "cap on listing pages fetched (0 uses the config value)")
	f.StringVar(&opts.token, "token", "", "GitHub access token (env GHTOPDEP_TOKEN)")
	f.BoolVar(&opts.noCache, "no-cache", false, "bypass the on-disk response cache")
	f.StringVar(&opts.configPath, "config", "", "path to a TOML config file")

	return cmd
}

// runScrape is the whole pipeline: validate, consult the report endpoint,
// scrape, submit, rank, print.
func (c *CLI) runScrape(ctx context.Context, rawURL string, opts *scrapeOptions, out io.Writer) error {
	// A .env file supplements the environment when present.
	_ = godotenv.Load()

	repoURL := strings.TrimSuffix(rawURL, "/")
	owner, repo, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return err
	}

	token := opts.token
	if token == "" {
		token = os.Getenv("GHTOPDEP_TOKEN")
	}
	if (opts.description || opts.search != "") && token == "" {
		return errors.New("a GitHub token is required for --description and --search: pass --token or set GHTOPDEP_TOKEN")
	}

	cfgPath := opts.configPath
	explicit := cfgPath != ""
	if !explicit {
		if cfgPath, err = defaultConfigPath(); err != nil {
			return err
		}
	}
	cfg, err := loadConfig(cfgPath, explicit)
	if err != nil {
		return err
	}
	if opts.maxPages > 0 {
		cfg.MaxPages = opts.maxPages
	}

	baseURL := os.Getenv("GHTOPDEP_BASE_URL")
	if baseURL == "" && os.Getenv("GHTOPDEP_ENV") == "development" {
		baseURL = devBaseURL
	}

	var reporter *report.Client
	if opts.report {
		if baseURL == "" {
			return errors.New("GHTOPDEP_BASE_URL is required for --report")
		}
		reporter = report.NewClient(baseURL)

		entries, err := reporter.Lookup(ctx, owner, repo)
		switch {
		case err == nil:
			c.Logger.Debug("serving cached result from report endpoint", "repo", owner+"/"+repo)
			return c.printResult(out, scrape.SortAndCap(entries, opts.rows), nil, opts)
		case errors.Is(err, report.ErrNotFound):
			c.Logger.Debug("report endpoint has no result yet", "repo", owner+"/"+repo)
		default:
			return err
		}
	}

	var pageCache, apiCache *httputil.Cache
	if !opts.noCache {
		dir := cfg.Cache.Dir
		if dir == "" {
			if dir, err = cacheDir(); err != nil {
				return err
			}
		}
		cache, err := httputil.NewCache(dir, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			c.Logger.Warn("response cache disabled", "err", err)
		} else {
			pageCache = cache.Namespace("pages")
			apiCache = cache.Namespace("api")
		}
	}

	httpClient := &http.Client{
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		Transport: &httputil.CacheTransport{Cache: pageCache, Logger: c.Logger},
	}

	var gh *github.Client
	if opts.description || opts.search != "" {
		gh = github.NewClient(token, apiCache)
	}

	dependentType := "REPOSITORY"
	if opts.packages {
		dependentType = "PACKAGE"
	}

	scrapeOpts := scrape.Options{
		StartURL:  fmt.Sprintf("%s/network/dependents?dependent_type=%s", repoURL, dependentType),
		RepoURL:   repoURL,
		MinStars:  opts.minStars,
		MaxPages:  cfg.MaxPages,
		Selectors: cfg.Selectors,
	}
	if opts.description {
		scrapeOpts.Describer = gh
	}

	bar := newMeter(os.Stderr, 0)
	scrapeOpts.Progress = bar.update

	scraper := scrape.New(httpClient, scrapeOpts, c.Logger)

	total, err := scraper.TotalCount(ctx)
	if err != nil {
		return err
	}
	c.Logger.Debug("listing header", "dependents", total, "type", dependentType)
	bar.total = total

	prog := newProgress(c.Logger)
	res, err := scraper.Run(ctx)
	bar.finish()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scraped %d pages", res.Pages))

	if reporter != nil {
		sub := report.Submission{URL: repoURL, Owner: owner, Repository: repo, Deps: res.Entries}
		if err := reporter.Submit(ctx, sub); err != nil {
			return err
		}
		c.Logger.Debug("result submitted to report endpoint", "deps", len(res.Entries))
	}

	if opts.search != "" {
		return c.printSearchHits(ctx, out, gh, opts.search, res.Entries)
	}
	return c.printResult(out, scrape.SortAndCap(res.Entries, opts.rows), res, opts)
}

// printResult renders the ranked entries as JSON or as a table. res is nil
// when the entries came from the report endpoint and no counters exist.
func (c *CLI) printResult(out io.Writer, entries []scrape.Entry, res *scrape.Result, opts *scrapeOptions) error {
	if opts.jsonOut {
		return writeJSON(out, entries)
	}
	writeTable(out, entries, opts.packages, opts.description)
	if res != nil {
		writeSummary(out, res, opts.packages)
	}
	return nil
}

// printSearchHits runs a code search against every accepted dependent and
// prints one line per hit. Per-repository search failures are recoverable.
func (c *CLI) printSearchHits(ctx context.Context, out io.Writer, gh *github.Client, query string, entries []scrape.Entry) error {
	for _, e := range entries {
		parsed, err := url.Parse(e.URL)
		if err != nil {
			continue
		}
		repoPath := strings.TrimPrefix(parsed.Path, "/")

		hits, err := gh.SearchCode(ctx, query, repoPath)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Logger.Warn("code search failed", "repo", repoPath, "err", err)
			continue
		}
		for _, hit := range hits {
			fmt.Fprintf(out, "%s with %d stars\n", hit, e.Stars)
		}
	}
	return nil
}
