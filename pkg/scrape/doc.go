// Package scrape implements the dependents-page scraping loop: it walks the
// paginated HTML listing of a repository's dependents, extracts linked
// repositories with their star counts, and accumulates a deduplicated,
// star-filtered result set.
//
// The loop is strictly sequential: one page fetch at a time, no concurrency.
// GitHub's dependents view is an uncontrolled, scrapeable web page, so the
// failure policy is deliberately asymmetric: the initial total-count probe is
// fatal (there is nothing to report without a first page), while any failure
// mid-pagination logs a warning and presents whatever was accumulated so far.
// Individual malformed entries are skipped, never aborting their page.
//
// The CSS selectors that locate entries, star counts, and pagination controls
// are configuration ([Selectors]), not invariants: GitHub's markup is a
// versioned external contract that changes independently of this tool.
package scrape
